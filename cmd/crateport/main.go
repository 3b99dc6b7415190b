// Command crateport converts a Traktor-style NML collection into a
// Pioneer CDJ-style hardware export, interchange XML, M3U playlists, or a
// thin database-software target.
package main

import (
	"github.com/crateport/crateport/internal/cli"
)

func main() {
	cli.Execute()
}
