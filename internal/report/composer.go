// Package report turns analysis results into human-readable narratives.
package report

import (
	"fmt"
	"strings"

	"renalscan/internal/analyze"
)

const disclaimer = "Note: This analysis is for educational purposes and should not replace professional medical diagnosis."

// Compose renders the narrative clinical summary for an analysis result.
// Output is deterministic: the same result always yields the same string.
func Compose(res analyze.Result) string {
	if !res.StoneDetected {
		return strings.Join([]string{
			"Analysis completed successfully. No kidney stones were detected in the submitted image.",
			"",
			"The system did not identify any significant abnormalities consistent with kidney stone presence in this image.",
			"",
			disclaimer + " If you have symptoms or concerns, please consult with a healthcare professional.",
		}, "\n")
	}

	return strings.Join([]string{
		"Analysis completed successfully. A kidney stone has been detected in the submitted image.",
		"",
		"Key Findings:",
		fmt.Sprintf("- Stone presence: Confirmed with %.1f%% confidence", res.Confidence*100),
		fmt.Sprintf("- Estimated size: %d pixels in area", res.SizePixels),
		fmt.Sprintf("- Anatomical location: %s", res.Location),
		"",
		"Recommendation: Please consult with a qualified urologist or radiologist for professional medical interpretation and treatment planning.",
		"",
		disclaimer,
	}, "\n")
}
