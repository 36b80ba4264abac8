package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nimbusdeploy/nimbus/sdk/core"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type fakeDeploymentsClient struct {
	byIdentifier map[string]core.Deployment
	byProject    map[string][]core.Deployment
	aliases      map[string][]core.Alias
	getErrs      map[string]error
	deleteErrs   map[string]error

	mu          sync.Mutex
	deleted     []string
	hardDeleted []string
}

func (f *fakeDeploymentsClient) Get(
	_ context.Context,
	identifier string,
) (core.Deployment, error) {
	if err, ok := f.getErrs[identifier]; ok {
		return core.Deployment{}, err
	}
	if deployment, ok := f.byIdentifier[identifier]; ok {
		return deployment, nil
	}
	return core.Deployment{}, &meta.ErrNotFound{
		Type: "Deployment",
		ID:   identifier,
	}
}

func (f *fakeDeploymentsClient) ListByProject(
	_ context.Context,
	projectID string,
	opts meta.ListOptions,
) (core.DeploymentList, error) {
	items := f.byProject[projectID]
	if opts.Limit > 0 && int64(len(items)) > opts.Limit {
		items = items[:opts.Limit]
	}
	return core.DeploymentList{Items: items}, nil
}

func (f *fakeDeploymentsClient) GetAliases(
	_ context.Context,
	deploymentID string,
) (core.AliasList, error) {
	return core.AliasList{Items: f.aliases[deploymentID]}, nil
}

func (f *fakeDeploymentsClient) Delete(
	_ context.Context,
	deploymentID string,
	opts core.DeploymentDeleteOptions,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErrs[deploymentID]; ok {
		return err
	}
	f.deleted = append(f.deleted, deploymentID)
	if opts.Hard {
		f.hardDeleted = append(f.hardDeleted, deploymentID)
	}
	return nil
}

type fakeProjectsClient struct {
	byIdentifier map[string]core.Project
	getErrs      map[string]error
	deleteErrs   map[string]error

	mu      sync.Mutex
	deleted []string
}

func (f *fakeProjectsClient) Get(
	_ context.Context,
	identifier string,
) (core.Project, error) {
	if err, ok := f.getErrs[identifier]; ok {
		return core.Project{}, err
	}
	if project, ok := f.byIdentifier[identifier]; ok {
		return project, nil
	}
	return core.Project{}, &meta.ErrNotFound{
		Type: "Project",
		ID:   identifier,
	}
}

func (f *fakeProjectsClient) List(
	_ context.Context,
	_ meta.ListOptions,
) (core.ProjectList, error) {
	return core.ProjectList{}, nil
}

func (f *fakeProjectsClient) Delete(
	_ context.Context,
	projectID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErrs[projectID]; ok {
		return err
	}
	f.deleted = append(f.deleted, projectID)
	return nil
}

type fakeAPIClient struct {
	deploymentsClient *fakeDeploymentsClient
	projectsClient    *fakeProjectsClient
}

func (f *fakeAPIClient) Deployments() core.DeploymentsClient {
	return f.deploymentsClient
}

func (f *fakeAPIClient) Projects() core.ProjectsClient {
	return f.projectsClient
}

func (f *fakeAPIClient) Templates() core.TemplatesClient {
	return nil
}

func newFakeAPIClient() *fakeAPIClient {
	return &fakeAPIClient{
		deploymentsClient: &fakeDeploymentsClient{
			byIdentifier: map[string]core.Deployment{},
			byProject:    map[string][]core.Deployment{},
			aliases:      map[string][]core.Alias{},
			getErrs:      map[string]error{},
			deleteErrs:   map[string]error{},
		},
		projectsClient: &fakeProjectsClient{
			byIdentifier: map[string]core.Project{},
			getErrs:      map[string]error{},
			deleteErrs:   map[string]error{},
		},
	}
}

func deploymentFixture(id, name, url string) core.Deployment {
	return core.Deployment{
		ObjectMeta: meta.ObjectMeta{ID: id},
		Name:       name,
		URL:        url,
	}
}

func TestResolveRemovalSetScenario(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.byIdentifier["abc123"] =
		deploymentFixture("abc123", "other-app", "other-app-abc123.nimbus.app")
	client.projectsClient.byIdentifier["my-app"] = core.Project{
		ObjectMeta: meta.ObjectMeta{ID: "prj_1"},
		Name:       "my-app",
	}
	client.deploymentsClient.byProject["prj_1"] = []core.Deployment{
		deploymentFixture("dep1", "my-app", "my-app-dep1.nimbus.app"),
		deploymentFixture("dep2", "my-app", "my-app-dep2.nimbus.app"),
	}

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"abc123", "my-app"},
		false,
	)
	require.NoError(t, err)
	require.Len(t, set.deployments, 1)
	require.Equal(t, "abc123", set.deployments[0].deployment.ID)
	require.Len(t, set.projects, 1)
	require.Equal(t, "my-app", set.projects[0].Name)
}

func TestResolveRemovalSetDropsProjectOwnedDeployment(t *testing.T) {
	client := newFakeAPIClient()
	// The identifier matches both a deployment and a project of the same name.
	// Removing the project covers the deployment.
	client.deploymentsClient.byIdentifier["my-app"] =
		deploymentFixture("dep1", "my-app", "my-app-dep1.nimbus.app")
	client.projectsClient.byIdentifier["my-app"] = core.Project{
		ObjectMeta: meta.ObjectMeta{ID: "prj_1"},
		Name:       "my-app",
	}

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"my-app"},
		false,
	)
	require.NoError(t, err)
	require.Empty(t, set.deployments)
	require.Len(t, set.projects, 1)
}

func TestResolveRemovalSetSafeMode(t *testing.T) {
	client := newFakeAPIClient()
	client.projectsClient.byIdentifier["my-app"] = core.Project{
		ObjectMeta: meta.ObjectMeta{ID: "prj_1"},
		Name:       "my-app",
	}
	client.deploymentsClient.byProject["prj_1"] = []core.Deployment{
		deploymentFixture("aliased", "my-app", "my-app-aliased.nimbus.app"),
		deploymentFixture("unaliased", "my-app", "my-app-unaliased.nimbus.app"),
	}
	client.deploymentsClient.aliases["aliased"] = []core.Alias{
		{Name: "www.example.com", DeploymentID: "aliased"},
	}

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"my-app"},
		true,
	)
	require.NoError(t, err)
	// Projects are never directly removable in safe mode
	require.Empty(t, set.projects)
	// Only the unaliased deployment survives filtering
	require.Len(t, set.deployments, 1)
	require.Equal(t, "unaliased", set.deployments[0].deployment.ID)
	for _, candidate := range set.deployments {
		require.Empty(t, candidate.aliases)
	}
}

func TestResolveRemovalSetSafeModeDropsAliasedMatches(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.byIdentifier["abc123"] =
		deploymentFixture("abc123", "my-app", "my-app-abc123.nimbus.app")
	client.deploymentsClient.aliases["abc123"] = []core.Alias{
		{Name: "www.example.com", DeploymentID: "abc123"},
	}

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"abc123"},
		true,
	)
	require.NoError(t, err)
	require.Empty(t, set.deployments)
	require.Empty(t, set.projects)
}

func TestResolveRemovalSetAttachesAliasesForDisplay(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.byIdentifier["abc123"] =
		deploymentFixture("abc123", "my-app", "my-app-abc123.nimbus.app")
	client.deploymentsClient.aliases["abc123"] = []core.Alias{
		{Name: "www.example.com", DeploymentID: "abc123"},
	}

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"abc123"},
		false,
	)
	require.NoError(t, err)
	// In non-safe mode an aliased deployment remains a candidate; its aliases
	// are retained for display only.
	require.Len(t, set.deployments, 1)
	require.Len(t, set.deployments[0].aliases, 1)
}

func TestResolveRemovalSetToleratesNotFound(t *testing.T) {
	client := newFakeAPIClient()
	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"bogus"},
		false,
	)
	require.NoError(t, err)
	require.Empty(t, set.deployments)
	require.Empty(t, set.projects)
}

func TestResolveRemovalSetPropagatesLookupErrors(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.getErrs["abc123"] = &meta.ErrInternalServer{}
	_, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"abc123"},
		false,
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "internal server error")
}

func TestResolveRemovalSetResolvesDuplicatesIndependently(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.byIdentifier["abc123"] =
		deploymentFixture("abc123", "my-app", "my-app-abc123.nimbus.app")

	set, err := resolveRemovalSet(
		context.Background(),
		client,
		[]string{"abc123", "abc123"},
		false,
	)
	require.NoError(t, err)
	require.Len(t, set.deployments, 2)
}

func TestExecuteRemovals(t *testing.T) {
	client := newFakeAPIClient()
	set := removalSet{
		deployments: []removalCandidate{
			{deployment: deploymentFixture("dep1", "a", "a.nimbus.app")},
			{deployment: deploymentFixture("dep2", "b", "b.nimbus.app")},
		},
		projects: []core.Project{
			{ObjectMeta: meta.ObjectMeta{ID: "prj_1"}, Name: "my-app"},
		},
	}
	err := executeRemovals(context.Background(), client, set, true)
	require.NoError(t, err)
	require.ElementsMatch(
		t,
		[]string{"dep1", "dep2"},
		client.deploymentsClient.deleted,
	)
	require.ElementsMatch(
		t,
		[]string{"dep1", "dep2"},
		client.deploymentsClient.hardDeleted,
	)
	require.Equal(t, []string{"prj_1"}, client.projectsClient.deleted)
}

func TestExecuteRemovalsFailureFailsRun(t *testing.T) {
	client := newFakeAPIClient()
	client.deploymentsClient.deleteErrs["dep2"] = &meta.ErrInternalServer{}
	set := removalSet{
		deployments: []removalCandidate{
			{deployment: deploymentFixture("dep1", "a", "a.nimbus.app")},
			{deployment: deploymentFixture("dep2", "b", "b.nimbus.app")},
		},
	}
	err := executeRemovals(context.Background(), client, set, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "error removing deployment dep2")
}

func TestRenderRemovalSet(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	testCases := []struct {
		name       string
		set        removalSet
		assertions func(t *testing.T, output string)
	}{
		{
			name: "deployment with alias warning",
			set: removalSet{
				deployments: []removalCandidate{
					{
						deployment: core.Deployment{
							ObjectMeta: meta.ObjectMeta{
								ID:      "abc123",
								Created: &created,
							},
							Name: "my-app",
							URL:  "my-app-abc123.nimbus.app",
						},
						aliases: []core.Alias{
							{Name: "www.example.com", DeploymentID: "abc123"},
						},
					},
				},
			},
			assertions: func(t *testing.T, output string) {
				require.Contains(t, output, "abc123")
				require.Contains(t, output, "my-app-abc123.nimbus.app")
				require.Contains(t, output, "www.example.com")
				require.Contains(t, output, "still bound")
			},
		},
		{
			name: "single project",
			set: removalSet{
				projects: []core.Project{
					{Name: "my-app"},
				},
			},
			assertions: func(t *testing.T, output string) {
				require.Contains(t, output, "all its deployments and aliases")
				require.Contains(t, output, "my-app")
			},
		},
		{
			name: "multiple projects",
			set: removalSet{
				projects: []core.Project{
					{Name: "my-app"},
					{Name: "other-app"},
				},
			},
			assertions: func(t *testing.T, output string) {
				require.Contains(t, output, "all their deployments and aliases")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			renderRemovalSet(buf, testCase.set)
			testCase.assertions(t, buf.String())
		})
	}
}

func TestConfirmsRemoval(t *testing.T) {
	testCases := []struct {
		reply     string
		confirmed bool
	}{
		{reply: "y", confirmed: true},
		{reply: "Y", confirmed: true},
		{reply: "yes", confirmed: true},
		{reply: "YES", confirmed: true},
		{reply: " yes ", confirmed: true},
		{reply: "", confirmed: false},
		{reply: "n", confirmed: false},
		{reply: "no", confirmed: false},
		{reply: "maybe", confirmed: false},
		{reply: "yess", confirmed: false},
	}
	for _, testCase := range testCases {
		require.Equal(
			t,
			testCase.confirmed,
			confirmsRemoval(testCase.reply),
			"reply %q",
			testCase.reply,
		)
	}
}

func TestRemoveRejectsInvalidIdentifierBeforeLookup(t *testing.T) {
	app := cli.NewApp()
	app.Commands = []*cli.Command{removeCommand}
	// A syntactically invalid identifier must abort the run before any client
	// is constructed or any lookup attempted, so the action fails with the
	// validation error rather than a configuration or API error.
	err := app.Run([]string{"nimbus", "remove", "ok-app", "my..app"})
	require.Error(t, err)
	require.Contains(
		t,
		err.Error(),
		`"my..app" is not a valid deployment or project identifier`,
	)
}

func TestPluralize(t *testing.T) {
	require.Equal(t, "1 deployment", pluralize(1, "deployment"))
	require.Equal(t, "0 deployments", pluralize(0, "deployment"))
	require.Equal(t, "2 projects", pluralize(2, "project"))
}
