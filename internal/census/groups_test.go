package census

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariablesForGroup(t *testing.T) {
	vars, err := VariablesForGroup("population")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1_001N"}, vars)

	vars, err = VariablesForGroup("race_detailed")
	require.NoError(t, err)
	assert.Len(t, vars, 25)
	assert.Equal(t, "P1_001N", vars[0])
	assert.Equal(t, "P1_025N", vars[24])

	_, err = VariablesForGroup("nope")
	assert.Error(t, err)
}

func TestACSVariablesForGroup(t *testing.T) {
	vars, err := ACSVariablesForGroup("income")
	require.NoError(t, err)
	assert.Contains(t, vars, "B19013_001E")

	_, err = ACSVariablesForGroup("nope")
	assert.Error(t, err)
}

func TestGroupsOnlyNameKnownVariables(t *testing.T) {
	for group, vars := range VariableGroups {
		for _, v := range vars {
			_, ok := Variables[v]
			assert.True(t, ok, "group %s names unknown %s", group, v)
		}
	}
	for group, vars := range ACSVariableGroups {
		for _, v := range vars {
			_, ok := ACSVariables[v]
			assert.True(t, ok, "group %s names unknown %s", group, v)
		}
	}
}

func writeGroupFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGroupFile(t *testing.T) {
	path := writeGroupFile(t, `
groups:
  renters:
    description: Renter-occupied housing
    variables: [H1_001N, B25003_003E]
`)
	gf, err := LoadGroupFile(path)
	require.NoError(t, err)

	pl94, acs, err := gf.Resolve("renters")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1_001N"}, pl94)
	assert.Equal(t, []string{"B25003_003E"}, acs)
}

func TestLoadGroupFile_Invalid(t *testing.T) {
	_, err := LoadGroupFile(writeGroupFile(t, `
groups:
  bad:
    variables: [NOT_A_VARIABLE]
`))
	assert.Error(t, err)

	_, err = LoadGroupFile(writeGroupFile(t, `groups: {}`))
	assert.Error(t, err)
}

func TestResolve_FallsBackToBuiltins(t *testing.T) {
	var gf *GroupFile

	pl94, acs, err := gf.Resolve("housing")
	require.NoError(t, err)
	assert.NotEmpty(t, pl94)
	assert.Empty(t, acs)

	pl94, acs, err = gf.Resolve("income")
	require.NoError(t, err)
	assert.Empty(t, pl94)
	assert.Contains(t, acs, "B19013_001E")

	_, _, err = gf.Resolve("nope")
	assert.Error(t, err)
}
