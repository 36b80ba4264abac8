package core

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTemplateName = "react"

func TestTemplateMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, Template{}, "Template")
}

func TestTemplateListMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, TemplateList{}, "TemplateList")
}

func TestNewTemplatesClient(t *testing.T) {
	client := NewTemplatesClient(
		testAPIAddress,
		testAPIToken,
		testClientAllowInsecure,
	)
	require.IsType(t, &templatesClient{}, client)
	requireBaseClient(t, client.(*templatesClient).BaseClient)
}

func TestTemplatesClientList(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/templates", r.URL.Path)
				fmt.Fprintf(w, `{"items": [{"name": %q}]}`, testTemplateName)
			},
		),
	)
	defer server.Close()
	client := NewTemplatesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	templates, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, templates.Items, 1)
	require.Equal(t, testTemplateName, templates.Items[0].Name)
}

func TestTemplatesClientDownloadArchive(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				defer r.Body.Close()
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/templates/%s/archive", testTemplateName),
					r.URL.Path,
				)
				fmt.Fprint(w, "archive bytes")
			},
		),
	)
	defer server.Close()
	client := NewTemplatesClient(
		server.URL,
		testAPIToken,
		testClientAllowInsecure,
	)
	archive, err := client.DownloadArchive(
		context.Background(),
		testTemplateName,
	)
	require.NoError(t, err)
	defer archive.Close()
	archiveBytes, err := ioutil.ReadAll(archive)
	require.NoError(t, err)
	require.Equal(t, "archive bytes", string(archiveBytes))
}
