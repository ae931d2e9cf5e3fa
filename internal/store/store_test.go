package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/model"
)

func entity(uid string, kind model.Kind, name, namespace, parent string) *model.Entity {
	return &model.Entity{UID: uid, Kind: kind, Name: name, Namespace: namespace, Parent: parent}
}

func TestMerge_IndexesLookups(t *testing.T) {
	st, err := Merge([]Partition{
		{Source: "a.yml", Entities: []*model.Entity{
			entity("Foo", model.KindNamespace, "Foo", "", ""),
			entity("Foo.Bar", model.KindClass, "Bar", "Foo", "Foo"),
		}},
		{Source: "b.yml", Entities: []*model.Entity{
			entity("Foo.Bar.Baz", model.KindMethod, "Baz()", "Foo", "Foo.Bar"),
			entity("Foo.Bar.Qux", model.KindProperty, "Qux", "Foo", "Foo.Bar"),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, st.Len())

	bar, ok := st.Get("Foo.Bar")
	require.True(t, ok)
	require.Equal(t, "Bar", bar.Name)

	_, ok = st.Get("Foo.Missing")
	require.False(t, ok)

	methods := st.ChildrenOf("Foo.Bar", model.KindMethod)
	require.Len(t, methods, 1)
	require.Equal(t, "Baz()", methods[0].Name)

	props := st.ChildrenOf("Foo.Bar", model.KindProperty)
	require.Len(t, props, 1)

	classes := st.ByNamespace("Foo", model.KindClass)
	require.Len(t, classes, 1)
	require.Equal(t, "Foo.Bar", classes[0].UID)
}

func TestMerge_DuplicateUIDAcrossPartitions_IsFatalInputError(t *testing.T) {
	_, err := Merge([]Partition{
		{Source: "a.yml", Entities: []*model.Entity{entity("Foo.Bar", model.KindClass, "Bar", "Foo", "Foo")}},
		{Source: "b.yml", Entities: []*model.Entity{entity("Foo.Bar", model.KindClass, "Bar", "Foo", "Foo")}},
	})
	require.Error(t, err)

	var ae *apimarkerrors.ApimarkError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apimarkerrors.CategoryInput, ae.Category)
	require.Contains(t, err.Error(), "duplicate uid")
	require.Contains(t, err.Error(), "a.yml")
	require.Contains(t, err.Error(), "b.yml")
}

func TestAll_PreservesIngestionOrder(t *testing.T) {
	st, err := Merge([]Partition{
		{Source: "a.yml", Entities: []*model.Entity{
			entity("B", model.KindClass, "B", "NS", "NS"),
			entity("A", model.KindClass, "A", "NS", "NS"),
		}},
	})
	require.NoError(t, err)

	all := st.All()
	require.Equal(t, "B", all[0].UID)
	require.Equal(t, "A", all[1].UID)
}
