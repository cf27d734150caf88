package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType(" infj ")
	require.NoError(t, err)
	assert.Equal(t, INFJ, got)

	for _, code := range []string{"ISTJ", "ISFJ", "INFJ", "INTJ", "ISTP", "ISFP", "INFP", "INTP",
		"ESTP", "ESFP", "ENFP", "ENTP", "ESTJ", "ESFJ", "ENFJ", "ENTJ"} {
		_, err := ParseType(code)
		assert.NoError(t, err, code)
	}

	for _, bad := range []string{"", "XXXX", "INF", "INFJ-T"} {
		_, err := ParseType(bad)
		assert.Error(t, err, bad)
	}
}

func TestDichotomyPercentagesValid(t *testing.T) {
	ok := DichotomyPercentages{I: 70, E: 30, N: 80, S: 20, T: 35, F: 65, J: 75, P: 25}
	assert.True(t, ok.Valid())

	offByOne := ok
	offByOne.J = 74
	assert.False(t, offByOne.Valid())

	assert.False(t, DichotomyPercentages{}.Valid())
}

func TestSupportedLanguage(t *testing.T) {
	assert.True(t, SupportedLanguage("en"))
	assert.True(t, SupportedLanguage("id"))
	assert.True(t, SupportedLanguage("vi"))
	assert.False(t, SupportedLanguage("xx"))
	assert.False(t, SupportedLanguage(""))
	assert.False(t, SupportedLanguage("EN"))
}

func TestReportValidate(t *testing.T) {
	base := func() *Report {
		return &Report{
			MBTIType:           INFJ,
			PersonalitySummary: "quiet idealist",
			Language:           "en",
			Dichotomies:        &DichotomyPercentages{I: 70, E: 30, N: 80, S: 20, T: 35, F: 65, J: 75, P: 25},
		}
	}

	assert.NoError(t, base().Validate())

	r := base()
	r.MBTIType = "XXXX"
	assert.Error(t, r.Validate())

	r = base()
	r.PersonalitySummary = ""
	r.MBTIExplanation = ""
	assert.Error(t, r.Validate())

	r = base()
	r.MBTIExplanation = "explained"
	r.PersonalitySummary = ""
	assert.NoError(t, r.Validate())

	r = base()
	r.Language = ""
	assert.Error(t, r.Validate())

	r = base()
	r.Dichotomies.E = 31
	assert.Error(t, r.Validate())

	r = base()
	r.Dichotomies = nil
	assert.NoError(t, r.Validate())
}
