package domain

import "slices"

// Plan is the ordered list of options executed by one run. It is built once per run.
type Plan []Option

// BuildPlan collects the options enabled in selection, in catalog traversal order,
// and moves the restore point (if selected) to the front. All other relative orders are kept.
func BuildPlan(c *Catalog, selection map[string]bool) Plan {
	var plan Plan
	for _, cat := range c.Categories {
		for _, opt := range cat.Options {
			if selection[opt.ID] {
				plan = append(plan, opt)
			}
		}
	}
	slices.SortStableFunc(plan, func(a, b Option) int {
		return restoreRank(a) - restoreRank(b)
	})
	return plan
}

func restoreRank(o Option) int {
	if o.ID == RestorePointID {
		return 0
	}
	return 1
}

// IDs returns the option IDs of the plan in order.
func (p Plan) IDs() []string {
	ids := make([]string, len(p))
	for i, o := range p {
		ids[i] = o.ID
	}
	return ids
}
