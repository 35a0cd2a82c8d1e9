package traffic

import (
	"fmt"

	"family-dashboard/models"
)

// AlertDelayMinutes is the delay above which the delta is shown in the alert color
const AlertDelayMinutes = 20

const alertSpan = "<span style='color: #ff5252 !important;'>%s</span>"

// BaseColor returns the row color for a direction. It never depends on the delay.
func BaseColor(direction models.Direction) models.ColorClass {
	if direction == models.Return {
		return models.ColorCyan
	}
	return models.ColorGold
}

// FormatLabel builds the display row for a parsed duration. current is the
// parsed minute count; 0 means the text could not be read and no delta is shown.
func FormatLabel(label, durationText string, current, baseline int, direction models.Direction) models.TrafficResult {
	result := models.TrafficResult{
		Label:        label,
		DurationText: durationText,
		Color:        BaseColor(direction),
	}

	if current <= 0 {
		result.Text = fmt.Sprintf("%s : %s", label, durationText)
		return result
	}

	delta := current - baseline
	result.Delta = &delta

	sign := ""
	if delta > 0 {
		sign = "+"
	}
	annotation := fmt.Sprintf("(%s%d分)", sign, delta)
	if delta > AlertDelayMinutes {
		annotation = fmt.Sprintf(alertSpan, annotation)
	}

	result.Text = fmt.Sprintf("%s : %s %s", label, durationText, annotation)
	return result
}
