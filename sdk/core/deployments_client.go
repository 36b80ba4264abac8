package core

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nimbusdeploy/nimbus/sdk/internal/restmachinery"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
)

// DeploymentsClient is the specialized client for managing Deployments with
// the Nimbus API.
type DeploymentsClient interface {
	// Get retrieves a single Deployment specified by its ID, its name, or its
	// URL (with any scheme already stripped by the caller).
	Get(ctx context.Context, identifier string) (Deployment, error)
	// ListByProject retrieves a page of Deployments belonging to the specified
	// Project.
	ListByProject(
		ctx context.Context,
		projectID string,
		opts meta.ListOptions,
	) (DeploymentList, error)
	// GetAliases retrieves all Aliases currently bound to the specified
	// Deployment.
	GetAliases(ctx context.Context, deploymentID string) (AliasList, error)
	// Delete deletes a single Deployment specified by its ID.
	Delete(
		ctx context.Context,
		deploymentID string,
		opts DeploymentDeleteOptions,
	) error
}

type deploymentsClient struct {
	*restmachinery.BaseClient
}

// NewDeploymentsClient returns a specialized client for managing Deployments.
func NewDeploymentsClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) DeploymentsClient {
	return &deploymentsClient{
		BaseClient: &restmachinery.BaseClient{
			APIAddress: apiAddress,
			APIToken:   apiToken,
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure,
					},
				},
			},
		},
	}
}

func (d *deploymentsClient) Get(
	_ context.Context,
	identifier string,
) (Deployment, error) {
	deployment := Deployment{}
	return deployment, d.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("v2/deployments/%s", identifier),
			AuthHeaders: d.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &deployment,
		},
	)
}

func (d *deploymentsClient) ListByProject(
	_ context.Context,
	projectID string,
	opts meta.ListOptions,
) (DeploymentList, error) {
	queryParams := map[string]string{}
	if opts.Continue != "" {
		queryParams["continue"] = opts.Continue
	}
	if opts.Limit != 0 {
		queryParams["limit"] = strconv.FormatInt(opts.Limit, 10)
	}
	deployments := DeploymentList{}
	return deployments, d.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("v2/projects/%s/deployments", projectID),
			AuthHeaders: d.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
			RespObj:     &deployments,
		},
	)
}

func (d *deploymentsClient) GetAliases(
	_ context.Context,
	deploymentID string,
) (AliasList, error) {
	aliases := AliasList{}
	return aliases, d.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("v2/deployments/%s/aliases", deploymentID),
			AuthHeaders: d.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &aliases,
		},
	)
}

func (d *deploymentsClient) Delete(
	_ context.Context,
	deploymentID string,
	opts DeploymentDeleteOptions,
) error {
	queryParams := map[string]string{}
	if opts.Hard {
		queryParams["hard"] = "true"
	}
	return d.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodDelete,
			Path:        fmt.Sprintf("v2/deployments/%s", deploymentID),
			AuthHeaders: d.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
		},
	)
}
