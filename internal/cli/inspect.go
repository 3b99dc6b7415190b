package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crateport/crateport/internal/pdbread"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <export.pdb>",
	Short: "Decode and validate a hardware export database",
	Long:  `Reads an export.pdb file's table pointers and rows without writing anything back, and reports a structure score.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	db, err := pdbread.Read(args[0])
	if err != nil {
		return err
	}

	result := pdbread.Validate(db)

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"tracks":    len(db.Tracks),
			"valid":     result.Valid,
			"score":     result.StructureScore,
			"cdj_ready": result.CDJCompatible,
			"issues":    result.Issues,
			"warnings":  result.Warnings,
		})
	}

	fmt.Println(pdbread.Summary(db))
	Normal("valid", StatusIcon(result.Valid))
	Normal("CDJ compatible", StatusIcon(result.CDJCompatible))
	for _, w := range result.Warnings {
		fmt.Println("warning:", w)
	}
	return nil
}
