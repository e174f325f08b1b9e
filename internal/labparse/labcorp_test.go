package labparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labcorpReport = `LabCorp                                            Patient Report
Laboratory Corporation of America
Patient: John Doe                                  DOB: 01/02/1980
Date Collected:  04/17/2024
Date Reported:   04/18/2024
Specimen ID: 123-456-7890

Test                      Result    Flag    Units      Reference Interval
Glucose                   95                mg/dL      65-99
Hemoglobin A1c            5.2               %          4.8-5.6
TSH                       2.45              uIU/mL     0.450-4.500
Cholesterol, Total        210       H       mg/dL      100-199
Vitamin D, 25-Hydroxy     45                ng/mL      30-100
eGFR                      92                           >59
`

func TestLabCorpParsesAlignedColumns(t *testing.T) {
	rows, err := LabCorpParser{}.TryParse(labcorpReport)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	glucose := rows[0]
	assert.Equal(t, "Glucose", glucose.TestName)
	require.NotNil(t, glucose.Value)
	assert.InDelta(t, 95, *glucose.Value, 0.001)
	require.NotNil(t, glucose.Unit)
	assert.Equal(t, "mg/dL", *glucose.Unit)
	require.NotNil(t, glucose.ReferenceRange)
	assert.Equal(t, "65-99", *glucose.ReferenceRange)
	assert.Nil(t, glucose.Flag)
	assert.InDelta(t, 1.0, glucose.Confidence, 0.001)

	tsh := rows[2]
	assert.Equal(t, "TSH", tsh.TestName)
	require.NotNil(t, tsh.Value)
	assert.InDelta(t, 2.45, *tsh.Value, 0.001)
	require.NotNil(t, tsh.ReferenceRange)
	assert.Equal(t, "0.450-4.500", *tsh.ReferenceRange)

	chol := rows[3]
	assert.Equal(t, "Cholesterol, Total", chol.TestName)
	require.NotNil(t, chol.Flag)
	assert.Equal(t, "H", *chol.Flag)

	egfr := rows[5]
	assert.Equal(t, "eGFR", egfr.TestName)
	assert.Nil(t, egfr.Unit)
	require.NotNil(t, egfr.ReferenceRange)
	assert.Equal(t, ">59", *egfr.ReferenceRange)
	assert.InDelta(t, 0.9, egfr.Confidence, 0.001)
}

func TestLabCorpSharesCollectionDateAcrossRows(t *testing.T) {
	rows, err := LabCorpParser{}.TryParse(labcorpReport)
	require.NoError(t, err)
	for _, row := range rows {
		require.NotNil(t, row.TestDate, "row %s", row.TestName)
		assert.Equal(t, "2024-04-17", *row.TestDate, "row %s", row.TestName)
	}
}

func TestLabCorpRecognizesCorporateName(t *testing.T) {
	text := "Laboratory Corporation of America\n\nSodium    140   mmol/L   135-146\n"
	rows, err := LabCorpParser{}.TryParse(text)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sodium", rows[0].TestName)
	assert.Nil(t, rows[0].TestDate)
}

func TestLabCorpRejectsForeignText(t *testing.T) {
	_, err := LabCorpParser{}.TryParse("Quest Diagnostics\nGLUCOSE 95 mg/dL (65-99)\n")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestLabCorpRecognizedButNoRows(t *testing.T) {
	rows, err := LabCorpParser{}.TryParse("LabCorp invoice summary\nAmount due on receipt\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
