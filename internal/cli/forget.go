package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget <id>",
		Short: "Forget a directive",
		Long:  "Tombstone a directive by ID. Forgetting a missing or already-forgotten ID is not an error.",
		Args:  cobra.ExactArgs(1),
		Run:   runForget,
	}

	RootCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	id := args[0]

	h, st, err := openHypnotizer()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	forgotten, err := h.Forget(cmd.Context(), id)
	if err != nil {
		exitErr("forget", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"forgotten":%t,"id":%q}`+"\n", forgotten, id)
}
