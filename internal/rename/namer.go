// Package rename computes standardized photo filenames and applies them to
// a staged copy of the survey folder. The staging copy is the only safety
// net against data loss: the source folder is never mutated.
package rename

import (
	"fmt"
	"strings"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// Namer computes standardized filenames of the form
//
//	{survey}_{flight}{camera}_{isotime}_{original}
//
// e.g. 2018015FA_f06r01_20180601T120001Z_IMG_0001.jpg. The survey part is
// the field-activity number with separator characters removed. Names are a
// pure function of (survey, flight, camera, capture time, original name).
type Namer struct {
	survey string
	flight string
	camera string
}

// NewNamer constructs a Namer. surveyID is the field-activity number as
// written (e.g. "2018-015-FA"); separators are stripped here.
func NewNamer(surveyID, flightID, cameraID string) Namer {
	return Namer{
		survey: stripSeparators(surveyID),
		flight: flightID,
		camera: cameraID,
	}
}

// SurveyPrefix returns the filename prefix shared by every renamed photo,
// used to detect folders that have already been renamed.
func (n Namer) SurveyPrefix() string {
	return n.survey + "_"
}

// NewName returns the standardized filename for rec.
func (n Namer) NewName(rec domain.PhotoRecord) string {
	return fmt.Sprintf("%s_%s%s_%s_%s", n.survey, n.flight, n.camera, rec.ISOTime, rec.OriginalName)
}

// stripSeparators removes the separator characters a field-activity number
// may carry so the survey id is one unbroken token.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, s)
}
