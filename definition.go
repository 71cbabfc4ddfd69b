package dxu

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-dxu/pkg/definition"
	"github.com/goliatone/go-dxu/pkg/schema"
	"github.com/goliatone/go-dxu/pkg/validation"
)

// Definition is a loaded DXU document. It is immutable once loaded and safe
// for concurrent reads.
type Definition struct {
	source    schema.Source
	tree      any
	doc       *definition.Document
	decodeErr error
	logger    zerolog.Logger
}

// Source reports where the definition was loaded from.
func (d *Definition) Source() schema.Source {
	return d.source
}

// Name is the short name of the data exchange unit.
func (d *Definition) Name() string {
	if d.doc != nil {
		return d.doc.Name
	}
	return d.treeString("name")
}

// Version is the declared definition version.
func (d *Definition) Version() string {
	if d.doc != nil {
		return d.doc.Version
	}
	return d.treeString("version")
}

// Description is the declared purpose of the unit.
func (d *Definition) Description() string {
	if d.doc != nil {
		return d.doc.Description
	}
	return d.treeString("description")
}

// Creators lists the authors in declaration order.
func (d *Definition) Creators() []definition.Creator {
	if d.doc == nil {
		return nil
	}
	return append([]definition.Creator(nil), d.doc.Creators...)
}

// Primary is the first extension.
func (d *Definition) Primary() definition.PrimarySpec {
	if d.doc == nil {
		return definition.PrimarySpec{}
	}
	return d.doc.Primary
}

// Tables are the binary table extensions in declaration order.
func (d *Definition) Tables() []definition.TableSpec {
	if d.doc == nil {
		return nil
	}
	return append([]definition.TableSpec(nil), d.doc.Tables...)
}

// Tree returns the merged generic tree. Callers must not modify it.
func (d *Definition) Tree() any {
	return d.tree
}

// Document returns the typed model, or the reason the tree could not be
// decoded into it.
func (d *Definition) Document() (*definition.Document, error) {
	if d.decodeErr != nil {
		return nil, fmt.Errorf("dxu: %s: %w", d.source.Location(), d.decodeErr)
	}
	return d.doc, nil
}

// Validate checks the merged tree against the meta-schema of validator. When
// the tree passes but does not decode into the definition model, the decode
// error is returned.
func (d *Definition) Validate(ctx context.Context, validator *validation.Validator) error {
	if validator == nil {
		return errors.New("dxu: validator is nil")
	}
	if err := validator.Validate(ctx, d.tree); err != nil {
		return err
	}
	_, err := d.Document()
	return err
}

func (d *Definition) treeString(key string) string {
	root, ok := d.tree.(map[string]any)
	if !ok {
		return ""
	}
	value, _ := root[key].(string)
	return value
}
