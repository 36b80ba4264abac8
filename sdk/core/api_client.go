package core

// APIClient is the general interface for the Nimbus API. It does little more
// than expose functions for obtaining more specialized clients for different
// areas of concern, like Deployment management or Project management.
type APIClient interface {
	// Deployments returns a specialized client for Deployment management.
	Deployments() DeploymentsClient
	// Projects returns a specialized client for Project management.
	Projects() ProjectsClient
	// Templates returns a specialized client for Template retrieval.
	Templates() TemplatesClient
}

type apiClient struct {
	deploymentsClient DeploymentsClient
	projectsClient    ProjectsClient
	templatesClient   TemplatesClient
}

// NewAPIClient returns a Nimbus client.
func NewAPIClient(apiAddress, apiToken string, allowInsecure bool) APIClient {
	return &apiClient{
		deploymentsClient: NewDeploymentsClient(
			apiAddress,
			apiToken,
			allowInsecure,
		),
		projectsClient:  NewProjectsClient(apiAddress, apiToken, allowInsecure),
		templatesClient: NewTemplatesClient(apiAddress, apiToken, allowInsecure),
	}
}

func (a *apiClient) Deployments() DeploymentsClient {
	return a.deploymentsClient
}

func (a *apiClient) Projects() ProjectsClient {
	return a.projectsClient
}

func (a *apiClient) Templates() TemplatesClient {
	return a.templatesClient
}
