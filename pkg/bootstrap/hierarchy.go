package bootstrap

import (
	"strings"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// FormatHierarchy renders parent links as "PARENT > CHILD" lines, one per
// linked node, in the order given. Root nodes produce no line.
func FormatHierarchy(nodes []model.RoleHierarchy) string {
	names := make(map[uint]string, len(nodes))
	for _, n := range nodes {
		names[n.ID] = n.ChildName
	}

	var b strings.Builder
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		parent, ok := names[*n.ParentID]
		if !ok && n.Parent != nil {
			parent = n.Parent.ChildName
		}
		if parent == "" {
			continue
		}
		b.WriteString(parent)
		b.WriteString(" > ")
		b.WriteString(n.ChildName)
		b.WriteString("\n")
	}
	return b.String()
}
