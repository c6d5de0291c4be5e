// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Run is one archived generation: the requested length, the shield mode and
// the terms that were produced.
type Run struct {
	// ID is a UUID assigned when the run is saved.
	ID string `json:"id" yaml:"id"`

	// CreatedAt is the save time in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Requested is the term count passed to the generator.
	Requested int `json:"requested" yaml:"requested"`

	// Mode is the shield mode the sequence was generated with.
	Mode ShieldMode `json:"mode" yaml:"mode"`

	// Terms holds the sequence in index order. List leaves it empty.
	Terms []Term `json:"terms,omitempty" yaml:"terms,omitempty"`
}
