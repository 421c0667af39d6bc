package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edumentor/readiness/internal/config"
	"github.com/edumentor/readiness/internal/db"
	"github.com/edumentor/readiness/internal/ontology"
	"github.com/edumentor/readiness/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample job postings",
	Long:  `Insert a small set of sample job postings so analyses and clustering have a corpus to work with.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedJob is one sample posting before normalization.
type seedJob struct {
	role    string
	skills  []string
	weights map[string]float64
}

var seedJobs = []seedJob{
	{
		role:    "Backend Developer",
		skills:  []string{"python", "flask", "django", "sql", "postgresql", "docker", "redis", "rest api", "git", "linux", "aws"},
		weights: map[string]float64{"python": 2.0, "SQL": 1.5, "flask": 1.5, "REST_API": 1.5, "docker": 1.2},
	},
	{
		role:    "Backend Developer",
		skills:  []string{"java", "spring boot", "microservices", "sql", "hibernate", "kafka", "docker", "kubernetes", "aws"},
		weights: map[string]float64{"java": 2.0, "spring boot": 1.5, "SQL": 1.5},
	},
	{
		role:    "Backend Developer",
		skills:  []string{"nodejs", "express", "mongodb", "javascript", "typescript", "aws", "serverless", "graphql"},
		weights: map[string]float64{"nodejs": 2.0, "typescript": 1.5, "mongodb": 1.5},
	},
	{
		role:    "Frontend Developer",
		skills:  []string{"javascript", "react", "html", "css", "typescript", "redux", "tailwind", "figma", "git"},
		weights: map[string]float64{"react": 2.0, "javascript": 1.5, "css": 1.2},
	},
	{
		role:    "Data Scientist",
		skills:  []string{"python", "pandas", "numpy", "scikit-learn", "sql", "tensorflow", "pytorch", "jupyter", "visualization"},
		weights: map[string]float64{"python": 2.0, "pandas": 1.5, "scikit-learn": 1.5},
	},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	onto, err := ontology.LoadDefault()
	if err != nil {
		return err
	}
	normalizer, err := ontology.NewNormalizer(onto)
	if err != nil {
		return err
	}

	for _, seed := range seedJobs {
		job := &types.JobRequirement{
			Role:    seed.role,
			Source:  "seed",
			Skills:  normalizer.Normalize(seed.skills),
			Weights: seed.weights,
		}
		if err := database.InsertJob(ctx, job); err != nil {
			return fmt.Errorf("failed to seed %s job: %w", seed.role, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d sample jobs.\n", len(seedJobs))
	return nil
}
