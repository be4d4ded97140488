package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Compact the store",
		Long:  "Rewrite the store dropping tombstoned directives, reclaiming space.",
		Run:   runCompact,
	}

	RootCmd.AddCommand(cmd)
}

func runCompact(cmd *cobra.Command, args []string) {
	h, st, err := openHypnotizer()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	if err := h.Compact(cmd.Context()); err != nil {
		exitErr("compact", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), `{"ok":true}`)
}
