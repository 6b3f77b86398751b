package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create COLLECTION [JSON]",
		Short: "Create entities",
		Long: `Create one entity from a JSON object, or several from a JSON array.
Several entities are created concurrently; failures are reported per entity.`,
		Example: `  strapi create articles '{"title":"Hello"}'
  strapi create articles --file articles.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(optionalArg(args, 1), file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			items, err := payloadList(payload)
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			query := client.From(args[0])

			if _, isList := payload.([]any); !isList {
				return renderResponse(cmd, query.Create(ctx, items[0]))
			}

			return renderBulk(cmd, query.CreateMany(ctx, items))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the JSON payload from a file (- for stdin)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "update COLLECTION ID [JSON]",
		Short:   "Update an entity",
		Long:    "Update the entity with ID from a JSON object",
		Example: `  strapi update articles 3 '{"title":"Changed"}'`,
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(optionalArg(args, 2), file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			values, err := payloadObject(payload)
			if err != nil {
				return err
			}

			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			return renderResponse(cmd, client.From(args[0]).Update(ctx, args[1], values))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the JSON payload from a file (- for stdin)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete COLLECTION ID...",
		Short:   "Delete entities",
		Long:    "Delete one or more entities by id. Several ids are deleted concurrently.",
		Example: `  strapi delete articles 3 4 5`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			query := client.From(args[0])
			ids := args[1:]

			if len(ids) == 1 {
				return renderResponse(cmd, query.DeleteOne(ctx, ids[0]))
			}

			return renderBulk(cmd, query.DeleteMany(ctx, toAny(ids)...))
		},
	}

	return cmd
}

func optionalArg(args []string, index int) string {
	if len(args) > index {
		return args[index]
	}

	return ""
}

func renderResponse[T any](cmd *cobra.Command, resp *strapi.APIResponse[T]) error {
	if resp.Error != nil {
		return fmt.Errorf("request failed: %w", resp.Error)
	}

	return render(cmd.OutOrStdout(), viper.GetString("output"), resp.Data, resp.Meta)
}

func renderBulk[T any](cmd *cobra.Command, resp *strapi.BulkResponse[T]) error {
	results := make([]any, 0, len(resp.Items))

	for index, item := range resp.Items {
		if item.Error != nil {
			results = append(results, map[string]any{"index": index, "error": item.Error.Error()})

			continue
		}

		results = append(results, item.Data)
	}

	err := render(cmd.OutOrStdout(), viper.GetString("output"), results, nil)
	if err != nil {
		return err
	}

	if failed := resp.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d requests failed: %w", failed, len(resp.Items), resp.Error)
	}

	return nil
}
