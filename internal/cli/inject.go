package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewowest/Hypnosis/internal/hypnosis"
)

func init() {
	cmd := &cobra.Command{
		Use:   "inject [content]",
		Short: "Inject a directive",
		Long:  "Inject a directive into memory. Content can be a positional arg or piped via stdin.",
		Run:   runInject,
	}

	cmd.Flags().StringP("priority", "p", "", "Priority: critical, high, medium, low, or a score in [0,1]")
	cmd.Flags().StringP("category", "c", "", "Category label")
	cmd.Flags().String("meta", "", "JSON metadata")

	RootCmd.AddCommand(cmd)
}

func runInject(cmd *cobra.Command, args []string) {
	priority, _ := cmd.Flags().GetString("priority")
	category, _ := cmd.Flags().GetString("category")
	metaStr, _ := cmd.Flags().GetString("meta")

	// Content: positional args first, then stdin.
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	var metadata map[string]any
	if metaStr != "" {
		if err := json.Unmarshal([]byte(metaStr), &metadata); err != nil {
			exitErr("parse meta", err)
		}
	}

	h, st, err := openHypnotizer()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	d, err := h.Inject(cmd.Context(), hypnosis.InjectParams{
		Content:  content,
		Priority: priority,
		Category: category,
		Metadata: metadata,
	})
	if err != nil {
		exitErr("inject", err)
	}

	b, _ := json.Marshal(d)
	fmt.Println(string(b))
}
