package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binfinder/binfinder/pkg/core"
)

func TestIsCSSColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#0f0", true},
		{"#00ff00", true},
		{"#00ff0080", true},
		{"rgb(0, 128, 0)", true},
		{"RGBA(0,0,0,0.5)", true},
		{"hsl(120deg 100% 50%)", true},
		{"green", true},
		{"", false},
		{"#12", false},
		{"red; background:url(x)", false},
		{"expression(alert(1))", false},
		{"url(javascript:1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCSSColor(tt.in))
		})
	}
}

func TestStruct_NewContainer(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(core.NewContainer{Name: "Glass", Color: "#0000ff"}))

	err := v.Struct(core.NewContainer{Name: "  ", Color: "nope!"})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field] = fe.Rule
	}
	assert.Equal(t, "notblank", fields["name"])
	assert.Equal(t, "csscolor", fields["color"])
	assert.Contains(t, verrs.UserMessage(), "name: is required")
}

func TestStruct_NewAdvert(t *testing.T) {
	v := New()
	good := "https://example.com/photo.jpg"
	bad := "not a url"

	assert.NoError(t, v.Struct(core.NewAdvert{Title: "Sale", Description: "Half price"}))
	assert.NoError(t, v.Struct(core.NewAdvert{Title: "Sale", Description: "Half price", PhotoURL: &good}))

	err := v.Struct(core.NewAdvert{Title: "Sale", Description: "Half price", PhotoURL: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photoUrl")

	err = v.Struct(core.NewAdvert{Title: "", Description: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "description")
}

func TestStruct_NewItemOptionalContainer(t *testing.T) {
	v := New()
	zero := int64(0)
	five := int64(5)

	assert.NoError(t, v.Struct(core.NewItem{Name: "paper"}))
	assert.NoError(t, v.Struct(core.NewItem{Name: "paper", ContainerID: &five}))
	assert.Error(t, v.Struct(core.NewItem{Name: "paper", ContainerID: &zero}))
}

func TestSlice(t *testing.T) {
	v := Default()

	require.NoError(t, Slice(v, []core.Container{{ID: 1}, {ID: 2}}))

	err := Slice(v, []core.Item{{ID: 1}, {ID: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")
	assert.Contains(t, err.Error(), "id")
}
