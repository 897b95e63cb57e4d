package criteria

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindCriteria_ProductCriteria(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()
	mapping := PagingMapping.Merge(Mapping{
		"category":  "CategoryIDs",
		"available": "AvailableOnly",
		"name":      "Name",
		"lang":      "Criteria.Language",
	})
	params := url.Values{
		"start":     {"40"},
		"count":     {"10"},
		"order":     {"DESC"},
		"category":  {c1.String() + "," + c2.String()},
		"available": {"true"},
		"name":      {"shoe"},
		"lang":      {"fr"},
		"ignored":   {"x"},
	}

	var crit catalog.ProductCriteria
	crit.Manufacturer = "kept"
	require.NoError(t, BindCriteria(mapping, params, &crit))

	assert.Equal(t, 40, crit.StartIndex)
	assert.Equal(t, 10, crit.MaxCount)
	assert.Equal(t, shared.OrderByDesc, crit.OrderBy)
	assert.Equal(t, []uuid.UUID{c1, c2}, crit.CategoryIDs)
	assert.True(t, crit.AvailableOnly)
	assert.Equal(t, "shoe", crit.Name)
	assert.Equal(t, "fr", crit.Language)
	assert.Equal(t, "kept", crit.Manufacturer)
}

func TestBindCriteria_SlicesAndPointers(t *testing.T) {
	params := url.Values{
		"type":    {"PAGE", "BOX"},
		"visible": {"1"},
	}
	var crit content.ContentCriteria
	require.NoError(t, BindCriteria(Mapping{"type": "ContentType", "visible": "Visible"}, params, &crit))

	assert.Equal(t, []content.ContentType{content.ContentTypePage, content.ContentTypeBox}, crit.ContentType)
	require.NotNil(t, crit.Visible)
	assert.True(t, *crit.Visible)
}

func TestBindCriteria_Errors(t *testing.T) {
	var crit catalog.ProductCriteria

	err := BindCriteria(Mapping{"x": "DoesNotExist"}, url.Values{"x": {"1"}}, &crit)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "DoesNotExist")

	err = BindCriteria(Mapping{"store": "StoreID"}, url.Values{"store": {uuid.NewString()}}, &crit)
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "fields tagged '-' are not bindable")

	err = BindCriteria(Mapping{"count": "MaxCount"}, url.Values{"count": {"many"}}, &crit)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.Error(t, BindCriteria(Mapping{}, url.Values{}, crit))
}

func TestBindCriteria_UnmappedFieldNotChecked(t *testing.T) {
	var crit catalog.ProductCriteria
	require.NoError(t, BindCriteria(Mapping{"x": "DoesNotExist"}, url.Values{}, &crit))
}

func TestBindQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/products?start=5&q=red", nil)

	var crit catalog.ProductCriteria
	require.NoError(t, BindQuery(c, PagingMapping, &crit))
	assert.Equal(t, 5, crit.StartIndex)
	assert.Equal(t, "red", crit.Search)
}
