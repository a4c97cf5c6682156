package delta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

func TestComputeBankAccountChange(t *testing.T) {
	original := map[string]string{"bankAccount": "8888", "city": "Tech Park"}
	edited := map[string]string{"bankAccount": "1234", "city": "Tech Park"}

	items := Compute(original, edited, []string{"bankAccount"})
	require.Len(t, items, 1)
	require.Equal(t, "LFBK", items[0].TableName)
	require.Equal(t, "BANKN", items[0].FieldName)
	require.Equal(t, "8888", items[0].OldValue)
	require.Equal(t, "1234", items[0].NewValue)
	require.True(t, items[0].IsSensitive)
}

func TestComputeCityChangeNotSensitive(t *testing.T) {
	original := map[string]string{"city": "Tech Park"}
	edited := map[string]string{"city": "Metro City"}

	items := Compute(original, edited, []string{"city"})
	require.Len(t, items, 1)
	require.Equal(t, "LFA1", items[0].TableName)
	require.Equal(t, "ORT01", items[0].FieldName)
	require.False(t, items[0].IsSensitive)
}

func TestComputeIgnoresUntouchedAndEqualFields(t *testing.T) {
	original := map[string]string{"name": "Acme", "city": "Tech Park", "street": "Main St"}
	edited := map[string]string{"name": "Acme Corp", "city": "Tech Park", "street": "Other St"}

	// street differs but was never touched, city was touched but is equal.
	items := Compute(original, edited, []string{"name", "city"})
	require.Len(t, items, 1)
	require.Equal(t, "NAME1", items[0].FieldName)
}

func TestComputeNoChanges(t *testing.T) {
	values := map[string]string{"name": "Acme", "city": "Tech Park"}
	items := Compute(values, values, []string{"name", "city"})
	require.Empty(t, items)
}

func TestComputeUnmappedFieldFallsBack(t *testing.T) {
	items := Compute(map[string]string{"phone": "1"}, map[string]string{"phone": "2"}, []string{"phone"})
	require.Len(t, items, 1)
	require.Equal(t, UnknownTable, items[0].TableName)
	require.Equal(t, "PHONE", items[0].FieldName)
	require.False(t, items[0].IsSensitive)
}

func TestComputeNilTouchedUsesAllSubmittedFields(t *testing.T) {
	original := map[string]string{"name": "Acme", "city": "Tech Park"}
	edited := map[string]string{"name": "Acme", "city": "Metro City"}

	items := Compute(original, edited, nil)
	require.Len(t, items, 1)
	require.Equal(t, "ORT01", items[0].FieldName)
}

func TestClassify(t *testing.T) {
	bank := []models.ChangeRequestItem{{TableName: "LFBK", FieldName: "BANKN"}}
	require.Equal(t, models.RequestTypeBankData, Classify(bank))

	address := []models.ChangeRequestItem{
		{TableName: "LFA1", FieldName: "ORT01"},
		{TableName: "LFA1", FieldName: "STCD1"},
	}
	require.Equal(t, models.RequestTypeAddress, Classify(address))

	tax := []models.ChangeRequestItem{{TableName: "LFA1", FieldName: "STCD1"}}
	require.Equal(t, models.RequestTypeTax, Classify(tax))

	general := []models.ChangeRequestItem{{TableName: "LFA1", FieldName: "NAME1"}}
	require.Equal(t, models.RequestTypeGeneral, Classify(general))
}

func TestSensitivePair(t *testing.T) {
	require.True(t, SensitivePair("LFBK", "BANKN"))
	require.True(t, SensitivePair("LFBK", "BANKL"))
	require.False(t, SensitivePair("LFBK", "IBAN"))
	require.False(t, SensitivePair("LFA1", "NAME1"))
	require.False(t, SensitivePair(UnknownTable, "PHONE"))
}
