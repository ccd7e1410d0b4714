package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/subsim/internal/sim"
)

const (
	DepthColor  = "#00d7ff"
	TargetColor = "#ffd700"
)

type bounds struct {
	minX, rangeX float64
	minY, rangeY float64
}

func sampleBounds(samples []sim.Sample) bounds {
	minX, maxX := samples[0].Time, samples[0].Time
	minY, maxY := samples[0].Depth, samples[0].Depth
	for _, s := range samples {
		minX = min(minX, s.Time)
		maxX = max(maxX, s.Time)
		minY = min(minY, s.Depth, s.Target)
		maxY = max(maxY, s.Depth, s.Target)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	return bounds{minX: minX, rangeX: rangeX, minY: minY, rangeY: rangeY}
}

func writePath(sb *strings.Builder, samples []sim.Sample, b bounds, width, height int, pick func(sim.Sample) float64, attrs string) {
	sb.WriteString(`<path fill="none" ` + attrs + ` d="M`)
	for i, s := range samples {
		x := (s.Time - b.minX) / b.rangeX * float64(width)
		y := float64(height) - (pick(s)-b.minY)/b.rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// DepthToSVG draws depth and target against time. Deeper is lower on the
// page, as in the playfield.
func DepthToSVG(samples []sim.Sample, width, height int) string {
	if len(samples) < 2 || width <= 0 || height <= 0 {
		return ""
	}
	b := sampleBounds(samples)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	writePath(&sb, samples, b, width, height, func(s sim.Sample) float64 { return s.Target },
		fmt.Sprintf(`stroke="%s" stroke-width="1" stroke-dasharray="4 3"`, TargetColor))
	writePath(&sb, samples, b, width, height, func(s sim.Sample) float64 { return s.Depth },
		fmt.Sprintf(`stroke="%s" stroke-width="1.5"`, DepthColor))

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(path string, samples []sim.Sample, width, height int) error {
	doc := DepthToSVG(samples, width, height)
	if doc == "" {
		return fmt.Errorf("export: need at least two samples to draw, got %d", len(samples))
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
