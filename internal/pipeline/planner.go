package pipeline

// Responsibility quotas per role position
const (
	firstRoleResponsibilities  = 5
	secondRoleResponsibilities = 4
	otherRoleResponsibilities  = 3
)

// ResponsibilityPlanner partitions the job's ordered responsibilities across
// roles. Items handed to a role, and items a role reports as covered, are
// never handed out again.
type ResponsibilityPlanner struct {
	all  []string
	used map[string]bool
	// order keeps used items in the order they were claimed
	order []string
}

// NewResponsibilityPlanner plans over responsibilities, most important first
func NewResponsibilityPlanner(responsibilities []string) *ResponsibilityPlanner {
	return &ResponsibilityPlanner{
		all:  responsibilities,
		used: make(map[string]bool),
	}
}

// Assign returns the responsibilities the role at roleIndex should cover and
// marks them used. Role 0 takes the first five, role 1 up to four unused
// items, later roles up to three.
func (p *ResponsibilityPlanner) Assign(roleIndex int) []string {
	limit := otherRoleResponsibilities
	switch roleIndex {
	case 0:
		limit = firstRoleResponsibilities
	case 1:
		limit = secondRoleResponsibilities
	}

	var out []string
	for _, r := range p.all {
		if len(out) == limit {
			break
		}
		if p.used[r] {
			continue
		}
		out = append(out, r)
	}
	p.markUsed(out)
	return out
}

// MarkCovered records responsibilities a role reported covering
func (p *ResponsibilityPlanner) MarkCovered(items []string) {
	p.markUsed(items)
}

// Used returns every claimed responsibility in claim order
func (p *ResponsibilityPlanner) Used() []string {
	return append([]string(nil), p.order...)
}

// Remaining returns the responsibilities not yet claimed, in job order
func (p *ResponsibilityPlanner) Remaining() []string {
	var out []string
	for _, r := range p.all {
		if !p.used[r] {
			out = append(out, r)
		}
	}
	return out
}

func (p *ResponsibilityPlanner) markUsed(items []string) {
	for _, r := range items {
		if r == "" || p.used[r] {
			continue
		}
		p.used[r] = true
		p.order = append(p.order, r)
	}
}
