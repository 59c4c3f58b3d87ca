package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/session"
)

// FormatSidebarState renders the current navigation context.
func FormatSidebarState(st session.State) string {
	var b strings.Builder
	mode := StyleGreen.Render("● all projects")
	if st.Mode == domain.ModeCurrentProject {
		mode = StyleYellowBold.Render("▶ current project")
	}
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("MODE   "), mode)

	company := Dim("--")
	if st.SelectedCompany != nil {
		company = st.SelectedCompany.Name + " " + TruncID(st.SelectedCompany.ID)
	}
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("COMPANY"), company)

	project := Dim("--")
	if st.SelectedProject != nil {
		project = st.SelectedProject.Name + " " + TruncID(st.SelectedProject.ID)
	}
	fmt.Fprintf(&b, "%s  %s", StyleDim.Render("PROJECT"), project)
	return b.String()
}
