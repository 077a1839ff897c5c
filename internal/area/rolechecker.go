package area

// RoleChecker validates a relation's declared member roles against the
// classification the Classifier computed, reporting a diagnostic for
// every segment whose declared role disagrees with its ring's role.
type RoleChecker struct {
	reporter ProblemReporter

	// Mismatches counts every disagreeing segment found. Its only
	// semantic effect downstream is gating closed-inner-way promotion:
	// promotion is disabled whenever this is nonzero.
	Mismatches int
}

// NewRoleChecker creates a RoleChecker reporting through reporter.
func NewRoleChecker(reporter ProblemReporter) *RoleChecker {
	return &RoleChecker{reporter: reporter}
}

// Check walks every segment of every outer/inner ring and reports
// role_should_be_outer / role_should_be_inner for mismatches.
func (c *RoleChecker) Check(outers []*ProtoRing) {
	for _, ring := range outers {
		for _, seg := range ring.Segments() {
			if !seg.RoleOuter() {
				c.Mismatches++
				if c.reporter != nil && seg.Way != nil {
					c.reporter.ReportRoleShouldBeOuter(int64(seg.Way.ID), seg.First.Loc, seg.Second.Loc)
				}
			}
		}
		for _, inner := range ring.InnerRings() {
			for _, seg := range inner.Segments() {
				if !seg.RoleInner() {
					c.Mismatches++
					if c.reporter != nil && seg.Way != nil {
						c.reporter.ReportRoleShouldBeInner(int64(seg.Way.ID), seg.First.Loc, seg.Second.Loc)
					}
				}
			}
		}
	}
}
