package repository

import (
	"strings"
	"testing"
)

func TestStageQueriesAreTenantScoped(t *testing.T) {
	queries := map[string]string{
		"list":          listStagesQuery,
		"getByID":       getStageByIDQuery,
		"findByName":    findStageByNameQuery,
		"findByNameFld": findStageByNameFoldQuery,
		"update":        updateStageQuery,
		"lockDelete":    lockStageForDeleteQuery,
		"delete":        deleteStageQuery,
		"reorder":       reorderStageQuery,
		"fallback":      findFallbackStageQuery,
		"count":         countStagesQuery,
	}

	for name, query := range queries {
		if !strings.Contains(strings.ToLower(query), "organization_id = $") {
			t.Fatalf("%s query must filter by organization_id", name)
		}
	}
}

func TestApplicationReassignmentIsTenantScoped(t *testing.T) {
	for _, query := range []string{countApplicationsOnStageQuery, reassignApplicationsQuery} {
		lower := strings.ToLower(query)
		if !strings.Contains(lower, "where organization_id = $1 and stage_id = $2") {
			t.Fatalf("expected tenant and stage filter in %q", query)
		}
	}
}

func TestListStagesOrderedBySortOrder(t *testing.T) {
	if !strings.Contains(strings.ToLower(listStagesQuery), "order by sort_order asc") {
		t.Fatal("stage list must be ordered by ascending sort_order")
	}
}

func TestCreateComputesNextSortOrderInOneStatement(t *testing.T) {
	query := strings.ToLower(createStageQuery)

	requiredFragments := []string{
		"coalesce($4::int",
		"coalesce(max(sort_order), 0) + 1",
		"where organization_id = $2",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected create fragment %q to be present", fragment)
		}
	}
}

func TestSeedIsConflictSafe(t *testing.T) {
	if !strings.Contains(strings.ToLower(seedStagesQuery), "on conflict do nothing") {
		t.Fatal("seed insert must ignore conflicting rows")
	}
	if !strings.Contains(strings.ToLower(lockTenantStagesQuery), "pg_advisory_xact_lock") {
		t.Fatal("seed must take a transaction-scoped tenant lock")
	}
}
