package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	orbitgrpc "github.com/andrescamacho/orbit-go/internal/adapters/grpc"
	"github.com/andrescamacho/orbit-go/internal/adapters/projectfile"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Check a project for missing inputs without running it",
		Long: `Resolve the phase dependencies of every project document and list
the inputs each phase is missing, as "Phase: path".

Examples:
  orbit validate project.yaml
  orbit validate project.yaml --daemon localhost:50061`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := projectfile.LoadDocuments(args[0])
			if err != nil {
				return err
			}

			var check func(doc *projectfile.Document) (bool, []string, string, error)
			if daemonAddr != "" {
				client, err := orbitgrpc.Dial(daemonAddr)
				if err != nil {
					return err
				}
				defer client.Close()
				check = func(doc *projectfile.Document) (bool, []string, string, error) {
					return client.ValidateProject(cmd.Context(), doc.Config, absPath(doc.Weather))
				}
			} else {
				a, err := newApp(false)
				if err != nil {
					return err
				}
				defer a.close()
				check = func(doc *projectfile.Document) (bool, []string, string, error) {
					series, err := a.loadWeather(doc.Weather)
					if err != nil {
						return false, nil, "", err
					}
					out, err := mediator.SendAs[*queries.ValidateProjectResponse](a.context(cmd.Context()), a.mediator, &queries.ValidateProjectQuery{
						Config:  doc.Config,
						Weather: series,
					})
					if err != nil {
						return false, nil, "", err
					}
					msg := ""
					if out.Err != nil {
						msg = out.Err.Error()
					}
					return out.Valid, out.Missing, msg, nil
				}
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, doc := range docs {
				valid, missing, msg, err := check(doc)
				if err != nil {
					return fmt.Errorf("%s: %w", doc.Name, err)
				}
				if valid {
					fmt.Fprintf(out, "✓ %s\n", doc.Name)
					continue
				}
				invalid++
				fmt.Fprintf(out, "✗ %s\n", doc.Name)
				for _, m := range missing {
					fmt.Fprintf(out, "    missing %s\n", m)
				}
				if msg != "" && len(missing) == 0 {
					fmt.Fprintf(out, "    %s\n", msg)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d projects are invalid", invalid, len(docs))
			}
			return nil
		},
	}
	return cmd
}
