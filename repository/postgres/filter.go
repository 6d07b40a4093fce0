package postgres

import (
	"fmt"
	"strings"

	"github.com/Ex1s9/game-catalog/repository"
)

// compiledFilter is one reusable predicate plus ordering and window. The
// same where/args pair feeds both the page query and the count query so the
// reported total can never disagree with the page contents.
type compiledFilter struct {
	where   string
	args    []interface{}
	orderBy string
	limit   int
	offset  int
}

func compileFilter(f repository.GameFilter) compiledFilter {
	clauses := []string{"deleted_at IS NULL"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.DeveloperID != "" {
		clauses = append(clauses, "developer_id = "+arg(f.DeveloperID))
	}
	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = c.String()
		}
		clauses = append(clauses, "categories && "+arg(names)+"::text[]")
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= "+arg(f.MinPrice.String())+"::numeric")
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= "+arg(f.MaxPrice.String())+"::numeric")
	}
	if f.Status != nil {
		clauses = append(clauses, "status = "+arg(f.Status.String()))
	}
	if f.Query != "" {
		clauses = append(clauses,
			"to_tsvector('simple', name) @@ plainto_tsquery('simple', "+arg(f.Query)+")")
	}

	return compiledFilter{
		where:   strings.Join(clauses, " AND "),
		args:    args,
		orderBy: orderClause(f.Sort),
		limit:   f.ClampedLimit(),
		offset:  f.ClampedOffset(),
	}
}

func orderClause(sort repository.Sort) string {
	if sort == repository.SortPopular {
		return "average_rating DESC, purchase_count DESC, id DESC"
	}
	return "created_at DESC, id DESC"
}

func (c compiledFilter) countQuery() (string, []interface{}) {
	return "SELECT count(*) FROM games WHERE " + c.where, c.args
}

func (c compiledFilter) pageQuery() (string, []interface{}) {
	query := fmt.Sprintf(
		"SELECT %s FROM games WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		gameColumns, c.where, c.orderBy, len(c.args)+1, len(c.args)+2,
	)
	args := append(append([]interface{}{}, c.args...), c.limit, c.offset)
	return query, args
}
