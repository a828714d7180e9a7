// Package peimage reads and rewrites the resource section of PE images
// (.exe, .dll, .sys, ...). Resource-directory parsing and section rebuilding
// are delegated to winres; debug/pe is used to recognize images that carry
// no resource directory at all, which winres treats as an error.
package peimage

import (
	"bytes"
	"debug/pe"
	"errors"
	"fmt"

	"github.com/tc-hib/winres"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// ErrNoImage is returned by Encode when there is no original image to patch.
// A PE file cannot be synthesized from resources alone.
var ErrNoImage = errors.New("peimage: no original image")

// Codec converts between PE images and resource trees.
type Codec struct{}

// Name identifies the container kind in logs.
func (Codec) Name() string { return "pe" }

// CanCreate reports false: Add never creates a PE file from scratch.
func (Codec) CanCreate() bool { return false }

// Decode parses the resource directory of image. An image without a
// resource directory yields an empty tree.
func (Codec) Decode(image []byte) (*types.Tree, error) {
	dir, err := resourceDirectory(image)
	if err != nil {
		return nil, err
	}
	tree := types.NewTree()
	if dir.VirtualAddress == 0 || dir.Size == 0 {
		return tree, nil
	}

	rs, err := winres.LoadFromEXE(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("peimage: resource directory: %w", err)
	}

	var walkErr error
	rs.Walk(func(typeID, resID winres.Identifier, langID uint16, data []byte) bool {
		k := types.Key{Lang: langID}
		if k.Type, walkErr = fromWinres(typeID); walkErr != nil {
			return false
		}
		if k.Name, walkErr = fromWinres(resID); walkErr != nil {
			return false
		}
		tree.Set(k, &types.Entry{Data: append([]byte(nil), data...)})
		return true
	})
	if walkErr != nil {
		return nil, fmt.Errorf("peimage: %w", walkErr)
	}
	return tree, nil
}

// Encode rebuilds original with the resource section replaced by tree.
func (Codec) Encode(tree *types.Tree, original []byte) ([]byte, error) {
	if len(original) == 0 {
		return nil, ErrNoImage
	}

	rs := &winres.ResourceSet{}
	var setErr error
	tree.Walk(func(k types.Key, e *types.Entry) bool {
		if err := rs.Set(toWinres(k.Type), toWinres(k.Name), k.Lang, append([]byte(nil), e.Data...)); err != nil {
			setErr = fmt.Errorf("%s: %w", k, err)
			return false
		}
		return true
	})
	if setErr != nil {
		return nil, fmt.Errorf("peimage: %w", setErr)
	}

	var out bytes.Buffer
	if err := rs.WriteToEXE(&out, bytes.NewReader(original)); err != nil {
		return nil, fmt.Errorf("peimage: write image: %w", err)
	}
	return out.Bytes(), nil
}

// resourceDirectory returns the IMAGE_DIRECTORY_ENTRY_RESOURCE entry of the
// image's optional header, zero when the header has no such slot.
func resourceDirectory(image []byte) (pe.DataDirectory, error) {
	f, err := pe.NewFile(bytes.NewReader(image))
	if err != nil {
		return pe.DataDirectory{}, fmt.Errorf("peimage: %w", err)
	}
	defer f.Close()

	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE], nil
		}
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE], nil
		}
	default:
		return pe.DataDirectory{}, errors.New("peimage: object file has no optional header")
	}
	return pe.DataDirectory{}, nil
}

func fromWinres(id winres.Identifier) (types.Ident, error) {
	switch v := id.(type) {
	case winres.ID:
		return types.IntID(uint16(v)), nil
	case winres.Name:
		return types.StrID(string(v)), nil
	default:
		return types.Ident{}, fmt.Errorf("unexpected identifier %T", id)
	}
}

func toWinres(id types.Ident) winres.Identifier {
	if id.IsName() {
		return winres.Name(id.Name)
	}
	return winres.ID(id.ID)
}
