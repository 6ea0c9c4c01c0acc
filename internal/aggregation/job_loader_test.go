package aggregation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	coreagg "github.com/aevon-lab/purchase-totals/internal/core/aggregation"
)

// writeJob is a test helper that writes a single job YAML file into dir.
func writeJob(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSystemJobRepository_LoadAndList(t *testing.T) {
	dir := t.TempDir()
	writeJob(t, dir, "by_product.yaml", `
name: "purchases_by_product"
dimension: "product"
input: "purchaseRecords"
output: "productPurchases"
`)
	writeJob(t, dir, "by_customer.yaml", `
name: "purchases_by_customer"
dimension: "customer"
input: "purchaseRecords"
output: "customerPurchases"
`)

	repo, err := coreagg.NewFileSystemJobRepository(dir)
	if err != nil {
		t.Fatalf("NewFileSystemJobRepository: %v", err)
	}

	all, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("List all: got %d jobs, want 2", len(all))
	}
	if all[0].Name != "purchases_by_customer" {
		t.Errorf("List order: first = %q, want purchases_by_customer", all[0].Name)
	}

	noMatch, err := repo.List(context.Background(), "refunds")
	if err != nil {
		t.Fatal(err)
	}
	if len(noMatch) != 0 {
		t.Errorf("List refunds: got %d, want 0", len(noMatch))
	}
}

func TestFileSystemJobRepository_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeJob(t, dir, "by_product.yaml", `
name: "purchases_by_product"
dimension: "product"
input: "purchaseRecords"
output: "productPurchases"
`)

	repo, err := coreagg.NewFileSystemJobRepository(dir)
	if err != nil {
		t.Fatal(err)
	}

	job, err := repo.Get(context.Background(), "purchases_by_product")
	if err != nil {
		t.Fatal(err)
	}
	if job.Value != coreagg.ValuePrice {
		t.Errorf("Value = %q, want price", job.Value)
	}
	if job.Operator != coreagg.OpSum {
		t.Errorf("Operator = %q, want sum", job.Operator)
	}
	if job.Route != "products" {
		t.Errorf("Route = %q, want products", job.Route)
	}
	if job.Format != "json" {
		t.Errorf("Format = %q, want json", job.Format)
	}
	if job.Fingerprint == "" {
		t.Error("Fingerprint is empty")
	}

	if _, err := repo.Get(context.Background(), "nonexistent"); err == nil {
		t.Error("Get nonexistent: expected error, got nil")
	}
}

func TestFileSystemJobRepository_Fingerprint_Changes(t *testing.T) {
	dir := t.TempDir()
	content := "name: \"fp_job\"\ndimension: \"product\"\ninput: \"in\"\noutput: \"out\"\n"
	writeJob(t, dir, "fp_job.yaml", content)

	repo1, err := coreagg.NewFileSystemJobRepository(dir)
	if err != nil {
		t.Fatal(err)
	}
	j1, _ := repo1.Get(context.Background(), "fp_job")

	writeJob(t, dir, "fp_job.yaml", content+"# comment\n")

	repo2, err := coreagg.NewFileSystemJobRepository(dir)
	if err != nil {
		t.Fatal(err)
	}
	j2, _ := repo2.Get(context.Background(), "fp_job")

	if j1.Fingerprint == j2.Fingerprint {
		t.Error("Fingerprint did not change after file modification")
	}
}

func TestFileSystemJobRepository_InvalidDefinitions(t *testing.T) {
	tests := map[string]string{
		"unsupported operator": `
name: "bad"
dimension: "product"
operator: "average"
input: "in"
output: "out"
`,
		"unsupported dimension": `
name: "bad"
dimension: "region"
input: "in"
output: "out"
`,
		"unsupported value": `
name: "bad"
dimension: "product"
value: "weight"
input: "in"
output: "out"
`,
		"missing input": `
name: "bad"
dimension: "product"
output: "out"
`,
		"input equals output": `
name: "bad"
dimension: "product"
input: "same"
output: "same"
`,
		"route with slash": `
name: "bad"
dimension: "product"
input: "in"
output: "out"
route: "a/b"
`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeJob(t, dir, "bad.yaml", content)
			if _, err := coreagg.NewFileSystemJobRepository(dir); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFileSystemJobRepository_Conflicts(t *testing.T) {
	tests := map[string][2]string{
		"duplicate name": {
			"name: \"dup\"\ndimension: \"product\"\ninput: \"in\"\noutput: \"a\"\n",
			"name: \"dup\"\ndimension: \"customer\"\ninput: \"in\"\noutput: \"b\"\n",
		},
		"shared output": {
			"name: \"one\"\ndimension: \"product\"\ninput: \"in\"\noutput: \"same\"\n",
			"name: \"two\"\ndimension: \"customer\"\ninput: \"in\"\noutput: \"same\"\n",
		},
		"shared route": {
			"name: \"one\"\ndimension: \"product\"\ninput: \"in\"\noutput: \"a\"\n",
			"name: \"two\"\ndimension: \"product\"\ninput: \"in\"\noutput: \"b\"\nvalue: \"quantity\"\n",
		},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeJob(t, dir, "first.yaml", files[0])
			writeJob(t, dir, "second.yaml", files[1])
			if _, err := coreagg.NewFileSystemJobRepository(dir); err == nil {
				t.Fatal("expected conflict error, got nil")
			}
		})
	}
}

func TestFileSystemJobRepository_MissingDir(t *testing.T) {
	repo, err := coreagg.NewFileSystemJobRepository(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("unexpected error for missing dir: %v", err)
	}
	if jobs := repo.GetJobs(); len(jobs) != 0 {
		t.Errorf("expected 0 jobs from missing dir, got %d", len(jobs))
	}
}

func TestFileSystemJobRepository_SkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeJob(t, dir, "empty.yaml", "")
	writeJob(t, dir, "comment_only.yaml", "# just a comment\n")
	writeJob(t, dir, "notes.txt", "name: ignored\n")
	writeJob(t, dir, "real.yml", "name: \"real\"\ndimension: \"customer\"\ninput: \"in\"\noutput: \"out\"\n")

	repo, err := coreagg.NewFileSystemJobRepository(dir)
	if err != nil {
		t.Fatal(err)
	}
	if jobs := repo.GetJobs(); len(jobs) != 1 {
		t.Errorf("expected 1 job (skipping empty/comment files), got %d", len(jobs))
	}
}

func TestStaticJobRepository(t *testing.T) {
	repo, err := coreagg.NewStaticJobRepository(coreagg.JobDefinition{
		Name:      "by_customer",
		Dimension: coreagg.DimensionCustomer,
		Input:     "purchaseRecords",
		Output:    "customerPurchases",
	})
	if err != nil {
		t.Fatal(err)
	}
	job, err := repo.Get(context.Background(), "by_customer")
	if err != nil {
		t.Fatal(err)
	}
	if job.Route != "customers" || job.Fingerprint == "" {
		t.Errorf("unexpected defaults: %+v", job)
	}
}
