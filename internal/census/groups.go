package census

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// GroupFile is a user-supplied YAML file defining extra variable groups:
//
//	groups:
//	  renters:
//	    description: Renter-occupied housing
//	    variables: [H1_001N, B25003_003E]
type GroupFile struct {
	Groups map[string]GroupDef `yaml:"groups"`
}

// GroupDef is one named group in a group file.
type GroupDef struct {
	Description string   `yaml:"description"`
	Variables   []string `yaml:"variables"`
}

// LoadGroupFile reads and validates a variable-group file. Every variable
// must be a known PL 94-171 or ACS code.
func LoadGroupFile(path string) (*GroupFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "census: read group file %s", path)
	}

	var gf GroupFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, eris.Wrapf(err, "census: parse group file %s", path)
	}
	if len(gf.Groups) == 0 {
		return nil, eris.Errorf("census: group file %s defines no groups", path)
	}

	for name, def := range gf.Groups {
		if len(def.Variables) == 0 {
			return nil, eris.Errorf("census: group %q has no variables", name)
		}
		for _, v := range def.Variables {
			if _, ok := Variables[v]; ok {
				continue
			}
			if _, ok := ACSVariables[v]; ok {
				continue
			}
			return nil, eris.Errorf("census: group %q names unknown variable %q", name, v)
		}
	}
	return &gf, nil
}

// Resolve splits a group's variables into PL 94-171 and ACS codes, checking
// user-defined groups before the built-in ones. User groups may mix the two
// catalogs; built-in groups are homogeneous.
func (gf *GroupFile) Resolve(group string) (pl94, acs []string, err error) {
	if gf != nil {
		if def, ok := gf.Groups[group]; ok {
			pl94, acs = splitVariables(def.Variables)
			return pl94, acs, nil
		}
	}
	if vars, ok := VariableGroups[group]; ok {
		return vars, nil, nil
	}
	if vars, ok := ACSVariableGroups[group]; ok {
		return nil, vars, nil
	}
	return nil, nil, eris.Errorf("census: unknown variable group %q", group)
}

// SplitVariables partitions mixed variable codes into the two catalogs.
// Unknown codes are dropped.
func SplitVariables(variables []string) (pl94, acs []string) {
	return splitVariables(variables)
}

func splitVariables(variables []string) (pl94, acs []string) {
	for _, v := range variables {
		if _, ok := Variables[v]; ok {
			pl94 = append(pl94, v)
		} else if _, ok := ACSVariables[v]; ok {
			acs = append(acs, v)
		}
	}
	return pl94, acs
}
