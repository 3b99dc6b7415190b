package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crateport/crateport/internal/keymap"
)

var keysTo string

var keysCmd = &cobra.Command{
	Use:   "keys [index]",
	Short: "Translate or list musical key notations",
	Long: `With an index (0-23), prints that key's Open-Key, classical,
flat-classical, Pioneer and Rekordbox-id forms. With no argument, lists
the whole 24-entry wheel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().StringVar(&keysTo, "to", "", "only print this notation (open-key, classical, flat-classical, pioneer)")
	rootCmd.AddCommand(keysCmd)
}

type keyRow struct {
	Index          int    `json:"index"`
	OpenKey        string `json:"open_key"`
	Classical      string `json:"classical"`
	FlatClassical  string `json:"flat_classical"`
	Pioneer        string `json:"pioneer"`
	RekordboxKeyID uint32 `json:"rekordbox_key_id"`
}

func describeKey(kt *keymap.Translator, index int) (keyRow, error) {
	var row keyRow
	row.Index = index

	openKey, err := kt.To(index, keymap.FormatOpenKey)
	if err != nil {
		return row, err
	}
	classical, _ := kt.To(index, keymap.FormatClassical)
	flatClassical, _ := kt.To(index, keymap.FormatFlatClassical)
	pioneer, _ := kt.To(index, keymap.FormatPioneer)

	row.OpenKey = openKey
	row.Classical = classical
	row.FlatClassical = flatClassical
	row.Pioneer = pioneer
	row.RekordboxKeyID = kt.RekordboxKeyID(index)
	return row, nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	kt := keymap.New()

	var rows []keyRow
	if len(args) == 1 {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("keys: %q is not an integer index", args[0])
		}
		row, err := describeKey(kt, index)
		if err != nil {
			return err
		}
		rows = []keyRow{row}
	} else {
		for i := 0; i < 24; i++ {
			row, err := describeKey(kt, i)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	if keysTo != "" {
		for _, row := range rows {
			switch keysTo {
			case "open-key":
				fmt.Println(row.OpenKey)
			case "classical":
				fmt.Println(row.Classical)
			case "flat-classical":
				fmt.Println(row.FlatClassical)
			case "pioneer":
				fmt.Println(row.Pioneer)
			default:
				return fmt.Errorf("keys: unknown notation %q for --to", keysTo)
			}
		}
		return nil
	}

	table := NewTable("INDEX", "OPEN-KEY", "CLASSICAL", "FLAT-CLASSICAL", "PIONEER", "REKORDBOX-ID")
	for _, row := range rows {
		table.Row(strconv.Itoa(row.Index), row.OpenKey, row.Classical, row.FlatClassical, row.Pioneer, strconv.FormatUint(uint64(row.RekordboxKeyID), 10))
	}
	table.Flush()

	return nil
}
