package data

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDirectory reads every definition under root and returns a populated
// Registry. Each definition kind lives in its own subdirectory, one YAML
// file per definition:
//
//	monsters/  items/  recipes/  crops/  sequences/
//	slayer_areas/  buildings/  tasks/  deities/
//
// Missing subdirectories are skipped so content can be introduced piecemeal.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error naming the first
// file that failed to parse or validate.
func LoadDirectory(root string) (*Registry, error) {
	reg := NewRegistry()

	if err := loadKind(filepath.Join(root, "monsters"), func(data []byte, path string) error {
		var def MonsterDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterMonster(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "items"), func(data []byte, path string) error {
		var def ItemDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterItem(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "recipes"), func(data []byte, path string) error {
		var def RecipeDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterRecipe(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "crops"), func(data []byte, path string) error {
		var def CropDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterCrop(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "sequences"), func(data []byte, path string) error {
		var def SequenceDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterSequence(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "slayer_areas"), func(data []byte, path string) error {
		var def SlayerAreaDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterSlayerArea(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "buildings"), func(data []byte, path string) error {
		var def BuildingDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterBuilding(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "tasks"), func(data []byte, path string) error {
		var def TownshipTaskDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterTask(&def)
	}); err != nil {
		return nil, err
	}

	if err := loadKind(filepath.Join(root, "deities"), func(data []byte, path string) error {
		var def DeityDef
		if err := decodeStrict(data, &def); err != nil {
			return err
		}
		if err := def.Validate(); err != nil {
			return err
		}
		return reg.RegisterDeity(&def)
	}); err != nil {
		return nil, err
	}

	return reg, nil
}

// loadKind applies parse to every *.yaml / *.yml file in dir. A missing dir
// is not an error.
func loadKind(dir string, parse func(data []byte, path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("data: reading directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("data: reading %q: %w", path, err)
		}
		if err := parse(raw, path); err != nil {
			return fmt.Errorf("data: %q: %w", path, err)
		}
	}
	return nil
}

// decodeStrict decodes YAML, rejecting unknown fields so typos in content
// files surface at load time.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	// Reject trailing documents; each file holds exactly one definition.
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing: multiple documents in one file")
	}
	return nil
}
