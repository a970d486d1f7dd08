package view

import (
	_ "embed"
	"html/template"

	"github.com/gin-gonic/gin/render"
)

//go:embed scan.html.tmpl
var scanTemplate string

const scanTemplateName = "scan"

var scanPage = template.Must(template.New(scanTemplateName).Parse(scanTemplate))

// ScanPage is the data rendered after a camera scan.
type ScanPage struct {
	Title         string
	Error         string
	StampCount    int
	Threshold     int
	FreeAvailable int
	EarnedReward  bool
}

// Filled and Empty drive the stamp row.
func (p ScanPage) Filled() []struct{} { return make([]struct{}, max(p.StampCount, 0)) }
func (p ScanPage) Empty() []struct{}  { return make([]struct{}, max(p.Threshold-p.StampCount, 0)) }

func RenderScan(p ScanPage) render.HTML {
	return render.HTML{Template: scanPage, Name: scanTemplateName, Data: p}
}
