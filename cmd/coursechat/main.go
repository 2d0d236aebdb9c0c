package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyunjin-oh/coursechat/config"
	"github.com/hyunjin-oh/coursechat/internal/history"
	"github.com/hyunjin-oh/coursechat/internal/search"
	srv "github.com/hyunjin-oh/coursechat/internal/server"
	"github.com/hyunjin-oh/coursechat/internal/store"
	"github.com/hyunjin-oh/coursechat/models"
	"github.com/hyunjin-oh/coursechat/provider"
)

func main() {
	var cfgPath string

	root := &cobra.Command{Use: "coursechat"}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.json)")

	root.AddCommand(serveCMD(&cfgPath), indexCMD(&cfgPath), searchCMD(&cfgPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return srv.Run(cfg)
		},
	}
}

// indexCMD builds the on-disk vector index: one embedding per dataset row,
// in row order, so the search engine can validate counts before use.
func indexCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Embed the course dataset and write the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI)
			if err != nil {
				return err
			}
			ds, err := store.Load(cfg.Dataset.Path)
			if err != nil {
				return err
			}

			texts := make([]string, ds.Len())
			for i, rec := range ds.Records() {
				texts[i] = search.ProjectionText(rec, search.QueryTypeCourse)
			}
			ix, err := search.BuildVectorIndex(cmd.Context(), llm, cfg.Providers.OpenAI.EmbeddingModel, texts)
			if err != nil {
				return err
			}
			if err := ix.Save(cfg.Search.VectorIndexPath); err != nil {
				return err
			}
			fmt.Printf("indexed %d records (%d dims) into %s\n", ix.Len(), ix.Dimension, cfg.Search.VectorIndexPath)
			return nil
		},
	}
}

// searchCMD runs a single hybrid search from the terminal and prints the
// ranked results.
func searchCMD(cfgPath *string) *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one hybrid search against the dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI)
			if err != nil {
				return err
			}

			hist := history.NewMemoryStore(cfg.History.Limit)
			engine := search.NewEngine(cfg.Search, cfg.Dataset.Path, llm, hist)

			results := engine.Search(cmd.Context(), strings.Join(args, " "), topK)
			if len(results) == 0 {
				fmt.Println("no courses matched the question")
				return nil
			}
			for _, r := range results {
				printResult(r)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of results (default from config)")
	return cmd
}

func printResult(r models.SearchResult) {
	fmt.Printf("\n#%d %s (%s)\n", r.Rank, r.CourseName, r.Professor)
	fmt.Printf("  department: %s / term: %s\n", r.Department, r.Term)
	fmt.Printf("  rating: %s / attendance: %s\n", r.Rating, r.Attendance)
	fmt.Printf("  exams: %s / homework: %s\n", r.ExamPolicy, r.Homework)
	fmt.Printf("  overview: %s\n", models.TruncateOverview(r.Overview))
	if r.RelevanceScore != nil {
		fmt.Printf("  score: %.4f\n", *r.RelevanceScore)
	}
}
