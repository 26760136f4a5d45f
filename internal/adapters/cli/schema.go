package cli

import (
	"github.com/spf13/cobra"

	orbitgrpc "github.com/andrescamacho/orbit-go/internal/adapters/grpc"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <phase>...",
		Short: "Print the inputs a set of phases needs",
		Long: `Compile the expected config of the given phases into one input tree.

Paths produced by a design phase in the set are left out, since the
design phase fills them in. Leaves show the unit of a required input or
the default of an optional one.

Examples:
  orbit schema MonopileDesign MonopileInstallation
  orbit schema ArraySystemDesign ArrayCableInstallation -o table`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := compileSchema(cmd, args)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), inputs)
		},
	}
	return cmd
}

func compileSchema(cmd *cobra.Command, phases []string) (config.Value, error) {
	if daemonAddr != "" {
		client, err := orbitgrpc.Dial(daemonAddr)
		if err != nil {
			return config.Value{}, err
		}
		defer client.Close()
		return client.CompileSchema(cmd.Context(), phases)
	}

	a, err := newApp(false)
	if err != nil {
		return config.Value{}, err
	}
	defer a.close()
	resp, err := mediator.SendAs[*queries.CompileSchemaResponse](a.context(cmd.Context()), a.mediator, &queries.CompileSchemaQuery{Phases: phases})
	if err != nil {
		return config.Value{}, err
	}
	return resp.Inputs, nil
}
