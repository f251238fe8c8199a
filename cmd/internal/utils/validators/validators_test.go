package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyForm struct {
	Company string  `json:"company" validate:"required,companyid"`
	Remarks *string `json:"remarks" validate:"omitnil,notblank"`
}

func TestCompanyID(t *testing.T) {
	validate := New()
	for _, ok := range []string{"atos", "urpea", "acme-2024", "a_b"} {
		assert.NoError(t, validate.Struct(&companyForm{Company: ok}), ok)
	}
	for _, bad := range []string{"ATOS", "-atos", "at os", "atos;drop", "../etc"} {
		assert.Error(t, validate.Struct(&companyForm{Company: bad}), bad)
	}
}

func TestNotBlankAndJSONNames(t *testing.T) {
	blank := "   "
	err := New().Struct(&companyForm{Company: "atos", Remarks: &blank})
	require.Error(t, err)

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "remarks", ve[0].Field())
	assert.Equal(t, "notblank", ve[0].Tag())
}
