package landing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	require.NoError(t, reg.Register(WidgetType{Name: "hero", Display: textDisplay("title"), Editor: stubEditor{}}))

	wt, ok := reg.Lookup("hero")
	require.True(t, ok)
	assert.Equal(t, "hero", wt.Label)
	_, ok = reg.Lookup("Hero")
	assert.False(t, ok)
}

func TestRegistryRejectsInvalidTypes(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Error(t, reg.Register(WidgetType{Display: textDisplay("x"), Editor: stubEditor{}}))
	assert.Error(t, reg.Register(WidgetType{Name: "a", Editor: stubEditor{}}))
	assert.Error(t, reg.Register(WidgetType{Name: "a", Display: textDisplay("x")}))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	wt := WidgetType{Name: "hero", Display: textDisplay("title"), Editor: stubEditor{}}
	require.NoError(t, reg.Register(wt))

	err = reg.Register(wt)

	require.ErrorIs(t, err, ErrDuplicateWidgetType)
}

func TestRegistrySealBlocksRegistration(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	reg.Seal()

	err = reg.Register(WidgetType{Name: "hero", Display: textDisplay("title"), Editor: stubEditor{}})

	require.ErrorIs(t, err, ErrRegistrySealed)
	assert.True(t, reg.Sealed())
}

func TestRegistryTypesSorted(t *testing.T) {
	reg := testRegistry(t)
	names := make([]string, 0)
	for _, wt := range reg.Types() {
		names = append(names, wt.Name)
	}
	assert.Equal(t, []string{"broken", "cta", "hero"}, names)
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(`
version: "1"
name: nonprofit
widgets:
  - name: volunteer-banner
    label: Volunteer banner
    kind: text
    defaults:
      title: Join us
`))
	require.NoError(t, err)
	reg, err := NewRegistry()
	require.NoError(t, err)

	var built []string
	factory := KindFactoryFunc(func(entry ManifestWidget) (Display, Editor, error) {
		built = append(built, entry.Kind)
		return textDisplay("title"), stubEditor{}, nil
	})
	require.NoError(t, reg.LoadManifestDocument(doc, factory))

	wt, ok := reg.Lookup("volunteer-banner")
	require.True(t, ok)
	assert.Equal(t, "Volunteer banner", wt.Label)
	assert.Equal(t, "Join us", wt.Defaults.String("title", ""))
	assert.Equal(t, []string{"text"}, built)
}
