/*
Copyright 2026 The Relq Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/qerrors"
)

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(
		Field{Name: "id", Type: datatypes.Int64{}},
		Field{Name: "id", Type: datatypes.String{}},
	)
	require.Error(t, err)
	assert.Equal(t, qerrors.IntegrityViolation, qerrors.StateOf(err))
}

func TestLookups(t *testing.T) {
	s := Must(New(
		Field{Name: "id", Type: datatypes.Int64{}},
		Field{Name: "name", Type: datatypes.String{}},
		Field{Name: "active", Type: datatypes.Boolean{}},
	))

	assert.Equal(t, 3, s.Len())
	if diff := cmp.Diff([]string{"id", "name", "active"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	typ, ok := s.Type("name")
	require.True(t, ok)
	assert.Equal(t, datatypes.String{}, typ)

	_, ok = s.Type("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, s.IndexOf("active"))
	assert.Equal(t, -1, s.IndexOf("missing"))
}

func TestEqual(t *testing.T) {
	a := Must(New(
		Field{Name: "id", Type: datatypes.Int64{}},
		Field{Name: "name", Type: datatypes.String{}},
	))

	tests := []struct {
		name  string
		other Schema
		want  bool
	}{{
		name: "same fields",
		other: Must(New(
			Field{Name: "id", Type: datatypes.Int64{}},
			Field{Name: "name", Type: datatypes.String{}},
		)),
		want: true,
	}, {
		name: "different order",
		other: Must(New(
			Field{Name: "name", Type: datatypes.String{}},
			Field{Name: "id", Type: datatypes.Int64{}},
		)),
		want: false,
	}, {
		name: "different type",
		other: Must(New(
			Field{Name: "id", Type: datatypes.Int32{}},
			Field{Name: "name", Type: datatypes.String{}},
		)),
		want: false,
	}, {
		name:  "different length",
		other: Must(New(Field{Name: "id", Type: datatypes.Int64{}})),
		want:  false,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Equal(tt.other))
		})
	}
}

func TestAppend(t *testing.T) {
	left := Must(New(
		Field{Name: "id", Type: datatypes.Int64{}},
		Field{Name: "name", Type: datatypes.String{}},
	))
	right := Must(New(
		Field{Name: "amount", Type: datatypes.Float64{}},
	))

	merged, err := left.Append(right)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"id", "name", "amount"}, merged.Names()); diff != "" {
		t.Errorf("Append() mismatch (-want +got):\n%s", diff)
	}

	// Overlapping names collide.
	_, err = left.Append(left)
	require.Error(t, err)
	assert.Equal(t, qerrors.IntegrityViolation, qerrors.StateOf(err))
}
