package instructions

import (
	"fmt"
	"strconv"
	"strings"

	"lsscore/internal/types"
)

// valueBag builds the {placeholder} substitution values for one Issue:
// node_name, param_code, current_value, target_value, cpk, batch_id.
func valueBag(issue types.Issue) map[string]string {
	bag := map[string]string{
		"node_name":     issue.NodeName,
		"node_code":     issue.NodeCode,
		"param_code":    issue.ParamCode,
		"current_value": strconv.FormatFloat(issue.CurrentValue, 'f', 2, 64),
		"batch_id":      issue.BatchID,
		"severity":      string(issue.Severity),
	}
	if issue.TargetValue != nil {
		bag["target_value"] = strconv.FormatFloat(*issue.TargetValue, 'f', 2, 64)
	} else {
		bag["target_value"] = "n/a"
	}
	if issue.Cpk != nil {
		bag["cpk"] = strconv.FormatFloat(*issue.Cpk, 'f', 3, 64)
	} else {
		bag["cpk"] = "n/a"
	}
	return bag
}

// render substitutes every {key} token in template with bag[key]. A
// token with no entry in bag is left untouched rather than erroring,
// so an ActionDef referencing an unexpected placeholder fails soft.
func render(template string, bag map[string]string) string {
	var pairs []string
	for k, v := range bag {
		pairs = append(pairs, fmt.Sprintf("{%s}", k), v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
