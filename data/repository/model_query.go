package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"attendance-app/data/models"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// reserved query parameters, handled outside the WHERE clause
var reservedParams = map[string]bool{"sortBy": true, "limit": true, "offset": true}

// buildQueryClauses constructs the WHERE, ORDER BY and LIMIT/OFFSET clauses of
// a listing query from URL query parameters. Keys are the model's JSON names.
// It returns the clauses and the values to pass alongside the query.
func buildQueryClauses(queryParams map[string]string, m models.Model) (string, []interface{}, int, error) {
	jsonMap := models.MapJsonTagsToDB(m)

	whereClause, values, placeholderIndex, err := buildWhereClause(queryParams, 1, jsonMap)
	if err != nil {
		return "", nil, 0, err
	}

	sortColumn, order, err := buildSortingClause(queryParams, jsonMap)
	if err != nil {
		return "", nil, 0, err
	}
	orderClause := fmt.Sprintf("ORDER BY %s %s", sortColumn, order)

	limit, offset, err := buildPaginationClause(queryParams)
	if err != nil {
		return "", nil, 0, err
	}
	paginationClause := fmt.Sprintf("LIMIT $%d OFFSET $%d", placeholderIndex, placeholderIndex+1)
	values = append(values, limit, offset)

	clauses := fmt.Sprintf("%s %s", orderClause, paginationClause)
	if whereClause != "" {
		clauses = whereClause + " " + clauses
	}

	return clauses, values, limit, nil
}

// buildWhereClause constructs a parameterized WHERE clause, ANDing one
// condition per query parameter in key order. Values are bound as strings and
// left to the driver to convert to the column type. It returns an empty clause when
// there is nothing to filter on, along with the next free placeholder index.
func buildWhereClause(queryParams map[string]string, phIndex int, jsonMap map[string]string) (whereClause string, values []interface{}, placeholderIndex int, err error) {
	keys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		if !reservedParams[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	whereClauseParts := []string{}
	values = []interface{}{}

	for _, key := range keys {
		operator, dbColumn, value, err := parseOperatorAndKey(key, queryParams[key], jsonMap)
		if err != nil {
			return "", nil, 0, err
		}

		// IN takes a variable number of values (e.g. status_anyOf=success,failed)
		if operator == "IN" {
			whereClauseParts, values, phIndex = handleInOperator(dbColumn, value, phIndex, whereClauseParts, values)
			continue
		}

		whereClauseParts = append(whereClauseParts, fmt.Sprintf("%s %s $%d", dbColumn, operator, phIndex))
		values = append(values, value)
		phIndex++
	}

	if len(whereClauseParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauseParts, " AND ")
	}

	return whereClause, values, phIndex, nil
}

// operatorSuffixes maps a key suffix to its SQL operator. Longer suffixes come
// first so _lte is not read as _lt.
var operatorSuffixes = []struct {
	suffix   string
	operator string
}{
	{"_contains", "ILIKE"},
	{"_anyOf", "IN"},
	{"_lte", "<="},
	{"_gte", ">="},
	{"_ne", "!="},
	{"_lt", "<"},
	{"_gt", ">"},
}

// parseOperatorAndKey determines the SQL operator and strips the operator
// suffix from the key. It returns the operator, the key's database column
// mapping, and the modified value (if applicable).
func parseOperatorAndKey(key, value string, jsonMap map[string]string) (operator, dbColumn string, modifiedValue string, err error) {
	operator = "="
	modifiedValue = value

	for _, s := range operatorSuffixes {
		if strings.HasSuffix(key, s.suffix) {
			operator = s.operator
			key = strings.TrimSuffix(key, s.suffix)
			break
		}
	}
	if operator == "ILIKE" {
		modifiedValue = "%" + value + "%"
	}

	if err := validateQueryParam(key, jsonMap); err != nil {
		return "", "", "", err
	}

	return operator, jsonMap[key], modifiedValue, nil
}

// handleInOperator appends a column IN ($n, $n+1, ...) part built from a
// comma-separated list of values.
func handleInOperator(dbColumn, value string, phIndex int, whereClauseParts []string, values []interface{}) ([]string, []interface{}, int) {
	placeholders := []string{}
	for _, v := range strings.Split(value, ",") {
		placeholders = append(placeholders, fmt.Sprintf("$%d", phIndex))
		values = append(values, v)
		phIndex++
	}

	whereClauseParts = append(whereClauseParts, fmt.Sprintf("%s IN (%s)", dbColumn, strings.Join(placeholders, ",")))
	return whereClauseParts, values, phIndex
}

func buildSortingClause(queryParams map[string]string, jsonMap map[string]string) (string, string, error) {
	sortBy := queryParams["sortBy"]
	order := "ASC"
	if strings.HasPrefix(sortBy, "-") {
		order = "DESC"
		sortBy = strings.TrimPrefix(sortBy, "-")
	}
	if sortBy == "" {
		sortBy = "id"
	}

	if err := validateQueryParam(sortBy, jsonMap); err != nil {
		return "", "", fmt.Errorf("invalid sort value: %v", sortBy)
	}

	return jsonMap[sortBy], order, nil
}

func buildPaginationClause(queryParams map[string]string) (int, int, error) {
	limit := defaultLimit
	offset := 0
	if l, ok := queryParams["limit"]; ok {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("pagination err; limit must be a positive number: %q", l)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	if o, ok := queryParams["offset"]; ok {
		var err error
		offset, err = strconv.Atoi(o)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("pagination err; offset must be a non-negative number: %q", o)
		}
	}
	return limit, offset, nil
}

func validateQueryParam(key string, jsonMap map[string]string) error {
	if jsonMap[key] == "" {
		return fmt.Errorf("invalid query parameter: %s", key)
	}
	return nil
}
