// Package modules lists the block kinds compiled into the rawgrid binary.
// Each kind lives in its own subpackage and registers itself.
package modules

import (
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/specialistvlad/rawgridgo/modules/brightness"
	"github.com/specialistvlad/rawgridgo/modules/convolution"
	"github.com/specialistvlad/rawgridgo/modules/difference"
	"github.com/specialistvlad/rawgridgo/modules/histogram"
	"github.com/specialistvlad/rawgridgo/modules/load"
	"github.com/specialistvlad/rawgridgo/modules/save"
	"github.com/specialistvlad/rawgridgo/modules/threshold"
)

// Core returns the definitive list of modules, in palette order.
func Core() []registry.Module {
	return []registry.Module{
		&load.Module{},
		&brightness.Module{},
		&convolution.Module{},
		&threshold.Module{},
		&difference.Module{},
		&histogram.Module{},
		&save.Module{},
	}
}
