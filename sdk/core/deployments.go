package core

import (
	"encoding/json"

	"github.com/nimbusdeploy/nimbus/sdk/meta"
)

// DeploymentState represents where a Deployment is in its lifecycle.
type DeploymentState string

const (
	// DeploymentStateBuilding represents the state wherein a Deployment's build
	// is still in progress.
	DeploymentStateBuilding DeploymentState = "BUILDING"
	// DeploymentStateReady represents the state wherein a Deployment built
	// successfully and is serving traffic.
	DeploymentStateReady DeploymentState = "READY"
	// DeploymentStateError represents the state wherein a Deployment's build
	// failed.
	DeploymentStateError DeploymentState = "ERROR"
)

// Deployment represents a single immutable build/release artifact. A
// Deployment is addressable by its ID, its Name, or its URL.
type Deployment struct {
	// ObjectMeta contains Deployment metadata.
	meta.ObjectMeta `json:"metadata"`
	// Name is the Deployment's human-friendly name. It is NOT guaranteed to be
	// unique across the lifetime of the system; a Deployment's name coincides
	// with the name of the Project it was created for.
	Name string `json:"name,omitempty"`
	// URL is the address at which the Deployment serves traffic.
	URL string `json:"url,omitempty"`
	// ProjectID identifies the Project that owns the Deployment.
	ProjectID string `json:"projectID,omitempty"`
	// State indicates where the Deployment is in its lifecycle.
	State DeploymentState `json:"state,omitempty"`
	// Aliases enumerates hostnames currently bound to the Deployment. This
	// field is NOT populated by deployment retrieval operations; clients that
	// need it must retrieve aliases separately.
	Aliases []Alias `json:"aliases,omitempty"`
}

// MarshalJSON amends Deployment instances with type metadata so that clients
// do not need to be concerned with the tedium of doing so.
func (d Deployment) MarshalJSON() ([]byte, error) {
	type Alias2 Deployment
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias2        `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Deployment",
			},
			Alias2: (Alias2)(d),
		},
	)
}

// DeploymentList is an ordered and pageable list of Deployments.
type DeploymentList struct {
	// ListMeta contains list metadata.
	meta.ListMeta `json:"metadata"`
	// Items is a slice of Deployments.
	Items []Deployment `json:"items,omitempty"`
}

// MarshalJSON amends DeploymentList instances with type metadata so that
// clients do not need to be concerned with the tedium of doing so.
func (d DeploymentList) MarshalJSON() ([]byte, error) {
	type Alias DeploymentList
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "DeploymentList",
			},
			Alias: (Alias)(d),
		},
	)
}

// Alias represents a human-friendly hostname bound to exactly one Deployment.
type Alias struct {
	// ObjectMeta contains Alias metadata.
	meta.ObjectMeta `json:"metadata"`
	// Name is the hostname.
	Name string `json:"name,omitempty"`
	// DeploymentID identifies the Deployment the hostname is bound to.
	DeploymentID string `json:"deploymentID,omitempty"`
}

// MarshalJSON amends Alias instances with type metadata so that clients do not
// need to be concerned with the tedium of doing so.
func (a Alias) MarshalJSON() ([]byte, error) {
	type Alias2 Alias
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias2        `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Alias",
			},
			Alias2: (Alias2)(a),
		},
	)
}

// AliasList is an ordered list of Aliases.
type AliasList struct {
	// ListMeta contains list metadata.
	meta.ListMeta `json:"metadata"`
	// Items is a slice of Aliases.
	Items []Alias `json:"items,omitempty"`
}

// MarshalJSON amends AliasList instances with type metadata so that clients do
// not need to be concerned with the tedium of doing so.
func (a AliasList) MarshalJSON() ([]byte, error) {
	type Alias2 AliasList
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias2        `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "AliasList",
			},
			Alias2: (Alias2)(a),
		},
	)
}

// DeploymentDeleteOptions represents useful criteria for deleting a
// Deployment.
type DeploymentDeleteOptions struct {
	// Hard, when true, instructs the API server to also discard the
	// Deployment's historical build and log data instead of retaining it for
	// the usual retention window.
	Hard bool
}
