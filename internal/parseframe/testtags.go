package parseframe

import (
	"github.com/pkg/errors"
	"github.com/viant/nocc/internal/tree"
)

// EnsureTestTags registers (idempotently) the boolean-shaped leaf tags
// lookahead DFAs use to report a yes/no result: `testtruetag`/`testfalsetag`.
func EnsureTestTags(reg *tree.Registry) (trueTag, falseTag *tree.TagDef, err error) {
	leaf, err := reg.NewTypeDef("testresult", 0, 0, 0, nil, nil, nil, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "registering testresult node-type")
	}
	trueTag, err = reg.NewTagDef("TESTTRUETAG", leaf, 0)
	if err != nil {
		return nil, nil, err
	}
	falseTag, err = reg.NewTagDef("TESTFALSETAG", leaf, 0)
	if err != nil {
		return nil, nil, err
	}
	return trueTag, falseTag, nil
}
