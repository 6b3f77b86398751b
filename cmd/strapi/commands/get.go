package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type getOptions struct {
	fields    []string
	ids       []string
	filters   []string
	orFilters []string
	sorts     []string
	populate  []string
	page      int
	pageSize  int
	start     int
	limit     int
	locale    string
	withDraft bool
	onlyDraft bool
	single    bool
	dryRun    bool
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get COLLECTION",
		Short: "Query a collection",
		Long: `Query a collection with filters, sorting, pagination and population.

Filters are written field:operator:value, e.g. title:containsi:go or
author.name:eq:Ada. List operators take comma separated values (id:in:1,2,3).`,
		Example: `  strapi get articles --fields title,slug --filter title:containsi:go --sort publishedAt:desc
  strapi get articles --populate author:name,email --page 2 --page-size 10
  strapi get articles --or title:eq:a --or title:eq:b --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.fields, "fields", nil, "fields to select")
	flags.StringSliceVar(&opts.ids, "id", nil, "select entities by id")
	flags.StringArrayVar(&opts.filters, "filter", nil, "filter as field:operator:value (repeatable)")
	flags.StringArrayVar(&opts.orFilters, "or", nil, "OR condition as field:operator:value (repeatable)")
	flags.StringSliceVar(&opts.sorts, "sort", nil, "sort as field[:asc|desc]")
	flags.StringArrayVar(&opts.populate, "populate", nil, "relation to populate: *, relation, relation:field1,field2 or a.b")
	flags.IntVar(&opts.page, "page", 0, "page number")
	flags.IntVar(&opts.pageSize, "page-size", 0, "page size")
	flags.IntVar(&opts.start, "start", 0, "offset of the first entity")
	flags.IntVar(&opts.limit, "limit", 0, "maximum number of entities")
	flags.StringVar(&opts.locale, "locale", "", "locale of localized content")
	flags.BoolVar(&opts.withDraft, "draft", false, "include draft entries")
	flags.BoolVar(&opts.onlyDraft, "only-draft", false, "return draft entries only")
	flags.BoolVar(&opts.single, "single", false, "return the first matching entity")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the request URL without sending it")

	return cmd
}

func runGet(cmd *cobra.Command, collection string, opts *getOptions) error {
	ctx := context.Background()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	defer client.Close()

	query := client.From(collection)

	if opts.single {
		builder, err := applyOptions(query.SelectOne(opts.fields...), opts)
		if err != nil {
			return err
		}

		return execute(ctx, cmd, builder, opts.dryRun)
	}

	builder := query.Select(opts.fields...)
	if len(opts.ids) > 0 {
		builder = query.SelectManyByID(toAny(opts.ids)...).Fields(opts.fields...)
	}

	builder, err = applyOptions(builder, opts)
	if err != nil {
		return err
	}

	return execute(ctx, cmd, builder, opts.dryRun)
}

func execute[T any](ctx context.Context, cmd *cobra.Command, builder *strapi.FilterBuilder[T], dryRun bool) error {
	if dryRun {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), builder.URL())

		return err
	}

	resp := builder.Get(ctx)
	if resp.Error != nil {
		return fmt.Errorf("query failed: %w", resp.Error)
	}

	return render(cmd.OutOrStdout(), viper.GetString("output"), resp.Data, resp.Meta)
}

// applyOptions adds every directive given on the command line to builder.
func applyOptions[T any](builder *strapi.FilterBuilder[T], opts *getOptions) (*strapi.FilterBuilder[T], error) {
	for _, raw := range opts.filters {
		spec, err := parseFilter(raw)
		if err != nil {
			return nil, err
		}

		if strings.Contains(spec.Field, ".") {
			builder.FilterDeep(spec.Field, spec.Operator, spec.Value)
		} else {
			builder.Filter(spec.Field, spec.Operator, spec.Value)
		}
	}

	if len(opts.orFilters) > 0 {
		conditions := make([]strapi.OrCondition, 0, len(opts.orFilters))

		for _, raw := range opts.orFilters {
			spec, err := parseFilter(raw)
			if err != nil {
				return nil, err
			}

			conditions = append(conditions, strapi.OrCondition{Path: spec.Field, Operator: spec.Operator, Value: spec.Value})
		}

		builder.OrFilter(conditions...)
	}

	if len(opts.sorts) > 0 {
		sorts := make([]strapi.SortSpec, 0, len(opts.sorts))

		for _, raw := range opts.sorts {
			sort, err := parseSort(raw)
			if err != nil {
				return nil, err
			}

			sorts = append(sorts, sort)
		}

		builder.SortBy(sorts...)
	}

	if opts.page > 0 || opts.pageSize > 0 {
		builder.Paginate(max(opts.page, 1), opts.pageSize)
	}

	if opts.start > 0 || opts.limit > 0 {
		builder.PaginateByOffset(opts.start, opts.limit)
	}

	switch {
	case opts.onlyDraft:
		builder.OnlyDraft()
	case opts.withDraft:
		builder.WithDraft()
	}

	if opts.locale != "" {
		builder.SetLocale(opts.locale)
	}

	for _, raw := range opts.populate {
		spec := parsePopulate(raw)

		switch {
		case spec.All:
			builder.Populate()
		case spec.Nested:
			builder.PopulateDeep(strapi.PopulateSpec{Path: spec.Relation, Fields: spec.Fields})
		default:
			builder.PopulateWith(spec.Relation, spec.Fields, false)
		}
	}

	return builder, nil
}
