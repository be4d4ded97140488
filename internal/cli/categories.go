package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	h, st, err := openHypnotizer()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	cats, err := h.Categories(cmd.Context())
	if err != nil {
		exitErr("categories", err)
	}

	if len(cats) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.Marshal(cats)
	fmt.Println(string(b))
}
