package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gosuri/uitable"
	"github.com/nimbusdeploy/nimbus/sdk/core"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/duration"
)

const (
	// maxRemovalsPerRun is the maximum number of deployments the API server
	// will delete in a single run. The server enforces this cap itself; the
	// CLI only warns when a run exceeds it.
	maxRemovalsPerRun = 200
	// safeExpansionPageSize is the number of deployments retrieved per project
	// when safe mode expands projects into their constituent deployments.
	safeExpansionPageSize = 201
)

var removeCommand = &cli.Command{
	Name:      "remove",
	Aliases:   []string{"rm"},
	Usage:     "Remove deployments and/or projects",
	ArgsUsage: "IDENTIFIER...",
	Description: "Each identifier may be a deployment ID, name, or URL, or a " +
		"project ID or name. Removing a project also removes all of its " +
		"deployments and aliases.",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name: flagHard,
			Usage: "Also discard historical build and log data for removed " +
				"deployments",
		},
		&cli.BoolFlag{
			Name:    flagSafe,
			Aliases: []string{"s"},
			Usage: "Skip deployments with active aliases and expand projects " +
				"into their deployments instead of removing them outright",
		},
		&cli.BoolFlag{
			Name:    flagYes,
			Aliases: []string{"y"},
			Usage:   "Non-interactively confirm removal",
		},
	},
	Action: remove,
}

// removalCandidate pairs a deployment slated for removal with the aliases
// found bound to it at resolution time.
type removalCandidate struct {
	deployment core.Deployment
	aliases    []core.Alias
}

// removalSet is the fully resolved and filtered outcome of identifier
// resolution-- everything the execute phase will remove.
type removalSet struct {
	deployments []removalCandidate
	projects    []core.Project
}

func remove(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New(
			"remove requires at least one argument-- a deployment or project " +
				"identifier",
		)
	}
	hard := c.Bool(flagHard)
	safe := c.Bool(flagSafe)

	// Identifier syntax is checked up front so that a typo aborts the run
	// before any network calls are made.
	identifiers := make([]string, c.Args().Len())
	for i, identifier := range c.Args().Slice() {
		normalized := normalizeIdentifier(identifier)
		if !validIdentifier(normalized) {
			return errors.Errorf(
				"%q is not a valid deployment or project identifier",
				identifier,
			)
		}
		identifiers[i] = normalized
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting nimbus client")
	}

	set, err := resolveRemovalSet(c.Context, client, identifiers, safe)
	if err != nil {
		return err
	}
	if len(set.deployments) == 0 && len(set.projects) == 0 {
		if safe {
			return errors.Errorf(
				"Could not find any unaliased deployments matching %s",
				strings.Join(identifiers, ", "),
			)
		}
		return errors.Errorf(
			"Could not find any deployments or projects matching %s",
			strings.Join(identifiers, ", "),
		)
	}

	if len(set.deployments) > maxRemovalsPerRun {
		fmt.Printf(
			"Only the first %d deployments will be removed in this run. Invoke "+
				"this command again after a short cooldown to remove the rest.\n\n",
			maxRemovalsPerRun,
		)
	}

	if !c.Bool(flagYes) {
		renderRemovalSet(os.Stdout, set)
		// A plain input prompt rather than survey.Confirm: the reply is read
		// exactly once and anything other than an affirmative declines, so an
		// unrecognized reply cancels the run instead of re-prompting.
		var reply string
		if err := survey.AskOne(
			&survey.Input{
				Message: "The resources above will be permanently removed. " +
					"Are you sure? [y/N]",
			},
			&reply,
		); err != nil {
			return errors.Wrap(err, "error confirming removal")
		}
		fmt.Println()
		if !confirmsRemoval(reply) {
			return errors.New("Canceled")
		}
	}

	started := time.Now()
	if err := executeRemovals(c.Context, client, set, hard); err != nil {
		return err
	}

	fmt.Printf(
		"Removed %s and %s in %s.\n",
		pluralize(len(set.deployments), "deployment"),
		pluralize(len(set.projects), "project"),
		time.Since(started).Round(time.Millisecond),
	)

	return nil
}

// resolveRemovalSet resolves each identifier to matching deployments and/or
// projects, then applies safe-mode expansion, project/deployment
// de-duplication, and alias-based filtering. Lookups within a phase are
// concurrent; each phase completes before the next begins.
func resolveRemovalSet(
	ctx context.Context,
	client core.APIClient,
	identifiers []string,
	safe bool,
) (removalSet, error) {
	matchedDeployments := make([]*core.Deployment, len(identifiers))
	matchedProjects := make([]*core.Project, len(identifiers))
	lookupErrs := make([]error, 2*len(identifiers))
	var wg sync.WaitGroup
	for i, identifier := range identifiers {
		wg.Add(2)
		go func(i int, identifier string) {
			defer wg.Done()
			deployment, err := client.Deployments().Get(ctx, identifier)
			if err != nil {
				lookupErrs[i] = err
				return
			}
			matchedDeployments[i] = &deployment
		}(i, identifier)
		go func(i int, identifier string) {
			defer wg.Done()
			project, err := client.Projects().Get(ctx, identifier)
			if err != nil {
				lookupErrs[len(identifiers)+i] = err
				return
			}
			matchedProjects[i] = &project
		}(i, identifier)
	}
	wg.Wait()
	// A failed lookup is only fatal if it failed for some reason other than
	// the identifier not matching anything.
	for _, err := range lookupErrs {
		if err != nil && !isNotFound(err) {
			return removalSet{}, err
		}
	}

	set := removalSet{}
	for _, project := range matchedProjects {
		if project != nil {
			set.projects = append(set.projects, *project)
		}
	}

	candidates := []removalCandidate{}
	for _, deployment := range matchedDeployments {
		if deployment != nil {
			candidates = append(
				candidates,
				removalCandidate{deployment: *deployment},
			)
		}
	}

	if safe {
		// Projects are never removed outright in safe mode. Each is expanded
		// into (a page of) its deployments, which become candidates
		// themselves.
		for _, project := range set.projects {
			deployments, err := client.Deployments().ListByProject(
				ctx,
				project.ID,
				meta.ListOptions{Limit: safeExpansionPageSize},
			)
			if err != nil {
				return removalSet{}, errors.Wrapf(
					err,
					"error retrieving deployments for project %s",
					project.Name,
				)
			}
			for _, deployment := range deployments.Items {
				candidates = append(
					candidates,
					removalCandidate{deployment: deployment},
				)
			}
		}
		set.projects = nil
	} else {
		// A deployment whose name coincides with a project slated for removal
		// is covered by the project removal and must not be counted twice.
		projectNames := map[string]struct{}{}
		for _, project := range set.projects {
			projectNames[project.Name] = struct{}{}
		}
		remaining := []removalCandidate{}
		for _, candidate := range candidates {
			if _, ok := projectNames[candidate.deployment.Name]; !ok {
				remaining = append(remaining, candidate)
			}
		}
		candidates = remaining
	}

	aliasLists := make([]core.AliasList, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			aliases, err := client.Deployments().GetAliases(
				gctx,
				candidate.deployment.ID,
			)
			if err != nil {
				return errors.Wrapf(
					err,
					"error retrieving aliases for deployment %s",
					candidate.deployment.ID,
				)
			}
			aliasLists[i] = aliases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return removalSet{}, err
	}
	for i, candidate := range candidates {
		candidate.aliases = aliasLists[i].Items
		if safe && len(candidate.aliases) > 0 {
			// Fail closed: an aliased deployment is externally referenced, so
			// safe mode leaves it alone.
			continue
		}
		set.deployments = append(set.deployments, candidate)
	}

	return set, nil
}

func renderRemovalSet(w io.Writer, set removalSet) {
	if len(set.deployments) > 0 {
		fmt.Fprintln(w, "The following deployments will be permanently removed:")
		fmt.Fprintln(w)
		table := uitable.New()
		table.AddRow("ID", "URL", "AGE")
		for _, candidate := range set.deployments {
			var age string
			if candidate.deployment.Created != nil {
				age = duration.ShortHumanDuration(
					time.Since(*candidate.deployment.Created),
				)
			}
			table.AddRow(candidate.deployment.ID, candidate.deployment.URL, age)
		}
		fmt.Fprintln(w, table)
		for _, candidate := range set.deployments {
			for _, alias := range candidate.aliases {
				fmt.Fprintf(
					w,
					"! %s is still bound to deployment %s and will stop working\n",
					alias.Name,
					candidate.deployment.URL,
				)
			}
		}
		fmt.Fprintln(w)
	}
	if len(set.projects) > 0 {
		if len(set.projects) == 1 {
			fmt.Fprintln(
				w,
				"The following project will also be removed, including all its "+
					"deployments and aliases:",
			)
		} else {
			fmt.Fprintln(
				w,
				"The following projects will also be removed, including all "+
					"their deployments and aliases:",
			)
		}
		for _, project := range set.projects {
			fmt.Fprintf(w, "  %s\n", project.Name)
		}
		fmt.Fprintln(w)
	}
}

// executeRemovals fires one delete per deployment and per project, all
// concurrently. Any individual failure fails the whole run; removals that
// already completed are not rolled back.
func executeRemovals(
	ctx context.Context,
	client core.APIClient,
	set removalSet,
	hard bool,
) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, candidate := range set.deployments {
		deployment := candidate.deployment
		g.Go(func() error {
			if err := client.Deployments().Delete(
				gctx,
				deployment.ID,
				core.DeploymentDeleteOptions{Hard: hard},
			); err != nil {
				return errors.Wrapf(
					err,
					"error removing deployment %s",
					deployment.ID,
				)
			}
			return nil
		})
	}
	for _, project := range set.projects {
		project := project
		g.Go(func() error {
			if err := client.Projects().Delete(gctx, project.ID); err != nil {
				return errors.Wrapf(
					err,
					"error removing project %s",
					project.Name,
				)
			}
			return nil
		})
	}
	return g.Wait()
}

func isNotFound(err error) bool {
	_, ok := err.(*meta.ErrNotFound)
	return ok
}

// confirmsRemoval reports whether a confirmation prompt reply constitutes
// consent. Only "y" and "yes", in any case, do; every other reply declines.
func confirmsRemoval(reply string) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "y", "yes":
		return true
	}
	return false
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
