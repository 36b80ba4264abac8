package core

import (
	"encoding/json"

	"github.com/nimbusdeploy/nimbus/sdk/meta"
)

// Template describes a starter project that can be scaffolded locally with
// `nimbus init`.
type Template struct {
	// Name is the Template's unique name.
	Name string `json:"name,omitempty"`
	// Description is a natural language description of the Template.
	Description string `json:"description,omitempty"`
	// Framework names the framework the Template is built around, if any.
	Framework string `json:"framework,omitempty"`
}

// MarshalJSON amends Template instances with type metadata so that clients do
// not need to be concerned with the tedium of doing so.
func (t Template) MarshalJSON() ([]byte, error) {
	type Alias Template
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Template",
			},
			Alias: (Alias)(t),
		},
	)
}

// TemplateList is an ordered list of Templates.
type TemplateList struct {
	// ListMeta contains list metadata.
	meta.ListMeta `json:"metadata"`
	// Items is a slice of Templates.
	Items []Template `json:"items,omitempty"`
}

// MarshalJSON amends TemplateList instances with type metadata so that clients
// do not need to be concerned with the tedium of doing so.
func (t TemplateList) MarshalJSON() ([]byte, error) {
	type Alias TemplateList
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "TemplateList",
			},
			Alias: (Alias)(t),
		},
	)
}
