package core

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/nimbusdeploy/nimbus/sdk/internal/restmachinery"
)

// TemplatesClient is the specialized client for retrieving starter project
// Templates from the Nimbus API.
type TemplatesClient interface {
	// List retrieves all Templates.
	List(ctx context.Context) (TemplateList, error)
	// DownloadArchive retrieves the specified Template's contents as a gzipped
	// tarball. Callers assume responsibility for closing the returned reader.
	DownloadArchive(ctx context.Context, name string) (io.ReadCloser, error)
}

type templatesClient struct {
	*restmachinery.BaseClient
}

// NewTemplatesClient returns a specialized client for retrieving Templates.
func NewTemplatesClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) TemplatesClient {
	return &templatesClient{
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

func (t *templatesClient) List(_ context.Context) (TemplateList, error) {
	templates := TemplateList{}
	return templates, t.ExecuteRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/templates",
			AuthHeaders: t.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &templates,
		},
	)
}

func (t *templatesClient) DownloadArchive(
	_ context.Context,
	name string,
) (io.ReadCloser, error) {
	resp, err := t.SubmitRequest(
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("v2/templates/%s/archive", name),
			AuthHeaders: t.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
