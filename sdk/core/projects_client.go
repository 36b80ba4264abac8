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

// ProjectsClient is the specialized client for managing Projects with the
// Nimbus API.
type ProjectsClient interface {
	// Get retrieves a single Project specified by its ID or its name.
	Get(ctx context.Context, identifier string) (Project, error)
	// List retrieves a page of Projects.
	List(ctx context.Context, opts meta.ListOptions) (ProjectList, error)
	// Delete deletes a single Project specified by its ID, along with all of
	// its Deployments and Aliases.
	Delete(ctx context.Context, projectID string) error
}

type projectsClient struct {
	*restmachinery.BaseClient
}

// NewProjectsClient returns a specialized client for managing Projects.
func NewProjectsClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) ProjectsClient {
	return &projectsClient{
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

func (p *projectsClient) Get(
	_ context.Context,
	identifier string,
) (Project, error) {
	project := Project{}
	return project, p.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("v2/projects/%s", identifier),
			AuthHeaders: p.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &project,
		},
	)
}

func (p *projectsClient) List(
	_ context.Context,
	opts meta.ListOptions,
) (ProjectList, error) {
	queryParams := map[string]string{}
	if opts.Continue != "" {
		queryParams["continue"] = opts.Continue
	}
	if opts.Limit != 0 {
		queryParams["limit"] = strconv.FormatInt(opts.Limit, 10)
	}
	projects := ProjectList{}
	return projects, p.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/projects",
			AuthHeaders: p.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
			RespObj:     &projects,
		},
	)
}

func (p *projectsClient) Delete(_ context.Context, projectID string) error {
	return p.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodDelete,
			Path:        fmt.Sprintf("v2/projects/%s", projectID),
			AuthHeaders: p.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}
