package labparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questColumnarReport = `Quest Diagnostics Incorporated
Patient Information                    Specimen Information
DOE, JANE                              Collected: 04/10/2024
Requisition: 7711223                   Reported: 04/12/2024

Test Name                In Range    Out of Range    Reference Range
GLUCOSE                  85                          65-99 mg/dL
HEMOGLOBIN A1c                       6.1 H           <5.7 %
SODIUM                   140                         135-146 mmol/L
CHOLESTEROL, TOTAL                   244 H           <200 mg/dL
`

const questCompactReport = `Quest Diagnostics
Collected: 03/05/2024

Glucose 95 mg/dL (65-99)
Creatinine 1.1 mg/dL (0.6-1.3)
Potassium 5.4 mmol/L (3.5-5.3) H
`

func TestQuestParsesColumnLayout(t *testing.T) {
	rows, err := QuestParser{}.TryParse(questColumnarReport)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	glucose := rows[0]
	assert.Equal(t, "GLUCOSE", glucose.TestName)
	require.NotNil(t, glucose.Value)
	assert.InDelta(t, 85, *glucose.Value, 0.001)
	require.NotNil(t, glucose.Unit)
	assert.Equal(t, "mg/dL", *glucose.Unit)
	require.NotNil(t, glucose.ReferenceRange)
	assert.Equal(t, "65-99", *glucose.ReferenceRange)
	assert.Nil(t, glucose.Flag)

	a1c := rows[1]
	assert.Equal(t, "HEMOGLOBIN A1c", a1c.TestName)
	require.NotNil(t, a1c.Value)
	assert.InDelta(t, 6.1, *a1c.Value, 0.001)
	require.NotNil(t, a1c.Flag)
	assert.Equal(t, "H", *a1c.Flag)
	require.NotNil(t, a1c.ReferenceRange)
	assert.Equal(t, "<5.7", *a1c.ReferenceRange)
	require.NotNil(t, a1c.Unit)
	assert.Equal(t, "%", *a1c.Unit)

	for _, row := range rows {
		require.NotNil(t, row.TestDate, "row %s", row.TestName)
		assert.Equal(t, "2024-04-10", *row.TestDate, "row %s", row.TestName)
	}
}

func TestQuestParsesCompactLayout(t *testing.T) {
	rows, err := QuestParser{}.TryParse(questCompactReport)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	creat := rows[1]
	assert.Equal(t, "Creatinine", creat.TestName)
	require.NotNil(t, creat.Value)
	assert.InDelta(t, 1.1, *creat.Value, 0.001)
	require.NotNil(t, creat.Unit)
	assert.Equal(t, "mg/dL", *creat.Unit)
	require.NotNil(t, creat.ReferenceRange)
	assert.Equal(t, "0.6-1.3", *creat.ReferenceRange)

	potassium := rows[2]
	assert.Equal(t, "Potassium", potassium.TestName)
	require.NotNil(t, potassium.Flag)
	assert.Equal(t, "H", *potassium.Flag)

	for _, row := range rows {
		require.NotNil(t, row.TestDate, "row %s", row.TestName)
		assert.Equal(t, "2024-03-05", *row.TestDate, "row %s", row.TestName)
	}
}

func TestQuestRejectsForeignText(t *testing.T) {
	_, err := QuestParser{}.TryParse(labcorpReport)
	assert.ErrorIs(t, err, ErrNoMatch)
}
