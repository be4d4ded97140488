package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewowest/Hypnosis/internal/hypnosis"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "Retrieve directives",
		Long:  "Retrieve directives, highest priority first. Filters combine with AND.",
		Run:   runRecall,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by exact category")
	cmd.Flags().Float64P("min-priority", "m", 0, "Minimum priority (inclusive)")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	minPriority, _ := cmd.Flags().GetFloat64("min-priority")
	query := strings.Join(args, " ")

	h, st, err := openHypnotizer()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	results, err := h.Recall(cmd.Context(), hypnosis.RecallParams{
		Query:       query,
		Category:    category,
		MinPriority: minPriority,
	})
	if err != nil {
		exitErr("recall", err)
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
