package treesitter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapExtension_Overrides(t *testing.T) {
	require.Equal(t, "javascript", MapExtension("jsx"))
	require.Equal(t, "typescript", MapExtension("tsx"))
	require.Equal(t, "csharp", MapExtension(".cs"))
	require.Equal(t, "ocaml_interface", MapExtension("mli"))
	require.Equal(t, "hcl", MapExtension("tfvars"))
}

func TestMapExtension_CaseInsensitiveAndDot(t *testing.T) {
	require.Equal(t, "go", MapExtension(".GO"))
	require.Equal(t, "go", MapExtension("go"))
}

func TestMapExtension_BaseFallback(t *testing.T) {
	require.Equal(t, "python", MapExtension("pyw"))
	require.Equal(t, "ruby", MapExtension("rake"))
}

func TestMapExtension_Unknown(t *testing.T) {
	require.Equal(t, "", MapExtension("xyz"))
	require.Equal(t, "", MapExtension(""))
}

func TestMapPath(t *testing.T) {
	require.Equal(t, "rust", MapPath("src/main.rs"))
	require.Equal(t, "typescript", MapPath("component.tsx"))
	require.Equal(t, "", MapPath("Makefile"))
}

func TestGetQueryKey_Alias(t *testing.T) {
	require.Equal(t, "typescript", GetQueryKey("tsx"))
	require.Equal(t, "go", GetQueryKey(" Go "))
	require.Equal(t, "", GetQueryKey(""))
}
