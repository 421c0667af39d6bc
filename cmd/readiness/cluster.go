package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edumentor/readiness/internal/clustering"
	"github.com/edumentor/readiness/internal/config"
	"github.com/edumentor/readiness/internal/db"
)

var clusterK int

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Recluster the stored job corpus",
	Long:  `Run k-means over every stored job posting and persist the cluster assignments and metadata.`,
	RunE:  runCluster,
}

func init() {
	clusterCmd.Flags().IntVar(&clusterK, "k", 4, "Number of clusters")
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, _ []string) error {
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

	jobs, err := database.AllJobs(ctx)
	if err != nil {
		return err
	}

	clusters, err := clustering.New(database).Cluster(ctx, jobs, clusterK)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Clustered %d jobs into %d clusters:\n", len(jobs), len(clusters))
	for id := 0; id < clusterK; id++ {
		c, ok := clusters[id]
		if !ok {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  cluster %d: %s (%d jobs)\n", id, c.RoleLabel, c.NumJobs)
	}
	return nil
}
