package repository

import (
	"strings"
	"testing"
)

func TestApplicationQueriesAreTenantScoped(t *testing.T) {
	cases := map[string]struct {
		query    string
		fragment string
	}{
		"get":    {getApplicationQuery, "where a.id = $1 and a.organization_id = $2"},
		"list":   {listApplicationsQuery, "where a.organization_id = $1"},
		"exists": {applicationExistsQuery, "where organization_id = $1 and candidate_id = $2 and job_id = $3"},
		"update": {updateApplicationQuery, "where id = $1 and organization_id = $2"},
		"delete": {deleteApplicationQuery, "where id = $1 and organization_id = $2"},
	}

	for name, tc := range cases {
		if !strings.Contains(strings.ToLower(tc.query), tc.fragment) {
			t.Fatalf("%s query missing tenant fragment %q", name, tc.fragment)
		}
	}
}

func TestApplicationJoinsStayInsideTenant(t *testing.T) {
	query := strings.ToLower(applicationSelect)

	requiredFragments := []string{
		"join tf_pipeline_stages s on s.id = a.stage_id and s.organization_id = a.organization_id",
		"join tf_candidates c on c.id = a.candidate_id and c.organization_id = a.organization_id",
		"join tf_jobs j on j.id = a.job_id and j.organization_id = a.organization_id",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected join fragment %q", fragment)
		}
	}
}

func TestCreateChecksTenantOwnership(t *testing.T) {
	query := strings.ToLower(createApplicationQuery)

	requiredFragments := []string{
		"from tf_candidates where id = $3 and organization_id = $2",
		"from tf_jobs where id = $4 and organization_id = $2",
		"from tf_pipeline_stages where id = $5 and organization_id = $2",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected ownership check %q", fragment)
		}
	}
}

func TestListIsNewestFirst(t *testing.T) {
	if !strings.Contains(strings.ToLower(listApplicationsQuery), "order by a.applied_at desc") {
		t.Fatal("expected applications ordered by applied_at desc")
	}
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	if !strings.Contains(strings.ToLower(updateApplicationQuery), "updated_at = now()") {
		t.Fatal("expected update to refresh updated_at")
	}
}
