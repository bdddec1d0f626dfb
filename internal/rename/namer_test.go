package rename_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whcmsc/surveyprep/internal/domain"
	"github.com/whcmsc/surveyprep/internal/rename"
)

func TestNamer_GoldenName(t *testing.T) {
	n := rename.NewNamer("2018-015-FA", "f06", "r01")
	rec := domain.NewPhotoRecord("IMG_0001.jpg", time.Date(2018, 6, 1, 12, 0, 1, 0, time.UTC))

	assert.Equal(t, "2018015FA_f06r01_20180601T120001Z_IMG_0001.jpg", n.NewName(rec))
}

func TestNamer_Deterministic(t *testing.T) {
	n := rename.NewNamer("2019-009-FA", "f11", "m01")
	rec := domain.NewPhotoRecord("IMG_0400_3.tif", time.Date(2019, 8, 7, 14, 30, 22, 0, time.UTC))

	first := n.NewName(rec)
	second := n.NewName(rec)

	assert.Equal(t, first, second)
	assert.Equal(t, "2019009FA_f11m01_20190807T143022Z_IMG_0400_3.tif", first)
}

func TestNamer_SameSecondDifferentOriginalsStayUnique(t *testing.T) {
	n := rename.NewNamer("2018-015-FA", "f06", "r01")
	captured := time.Date(2018, 6, 1, 12, 0, 1, 0, time.UTC)

	a := n.NewName(domain.NewPhotoRecord("IMG_0001.jpg", captured))
	b := n.NewName(domain.NewPhotoRecord("IMG_0002.jpg", captured))

	assert.NotEqual(t, a, b, "the original filename suffix keeps same-second captures distinct")
}

func TestNamer_SurveyPrefix(t *testing.T) {
	n := rename.NewNamer("2018-015-FA", "f06", "r01")

	assert.Equal(t, "2018015FA_", n.SurveyPrefix())
}
