package ipxact

import (
	"strconv"

	"github.com/busmap/sv2ipxact/pkg/matcher"
	"github.com/busmap/sv2ipxact/pkg/sv"
)

// BuildInput carries everything the serializer needs for one document.
type BuildInput struct {
	Module     *sv.Module
	Interfaces []matcher.BusInterface
	Revision   Revision

	// Component VLNV parts; Name is always the module name. Zero values
	// fall back to the converter's defaults.
	Vendor  string
	Library string
	Version string
}

const (
	defaultVendor  = "sv2ipxact.local"
	defaultLibrary = "converted"
	defaultVersion = "1.0"
)

// Build assembles the component document tree for the chosen revision.
// Element ordering follows the revision's schema sequence: busInterfaces,
// addressSpaces, memoryMaps, model, fileSets, description, parameters.
// The interfaces slice is emitted in the order given (the matcher already
// sorts it by group name), ports in Module source order, and portMaps in
// abstraction declaration order, so the output is byte-stable (spec §8).
func Build(in BuildInput) *Document {
	dia := dialects[in.Revision]

	vendor := in.Vendor
	if vendor == "" {
		vendor = defaultVendor
	}
	library := in.Library
	if library == "" {
		library = defaultLibrary
	}
	version := in.Version
	if version == "" {
		version = defaultVersion
	}

	root := el("component")
	root.attrs = append(root.attrs,
		xmlAttr("xmlns:"+dia.prefix, dia.namespace),
		xmlAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"),
		xmlAttr("xsi:schemaLocation", dia.namespace+" "+dia.namespace+"/index.xsd"),
	)

	root.add(
		txt("vendor", vendor),
		txt("library", library),
		txt("name", in.Module.Name),
		txt("version", version),
	)

	if len(in.Interfaces) > 0 {
		bis := el("busInterfaces")
		for i := range in.Interfaces {
			bis.add(buildBusInterface(&in.Interfaces[i], dia))
		}
		root.add(bis)
	}

	root.add(buildAddressSpaces(in.Interfaces))
	root.add(buildMemoryMaps(in.Interfaces))
	root.add(buildModel(in.Module, dia))
	root.add(buildFileSets(in.Module))
	root.add(txt("description", "Generated from "+in.Module.SourceFile+" by sv2ipxact"))
	root.add(buildParameters(in.Module))

	return &Document{Revision: in.Revision, root: root}
}

func buildBusInterface(bi *matcher.BusInterface, dia dialect) *node {
	n := el("busInterface", txt("name", bi.Name))

	busType := el("busType")
	addVLNVAttrs(busType, dia, bi.Bus.Vendor, bi.Bus.Library, bi.Bus.Name, bi.Bus.Version)
	n.add(busType)

	portMaps := buildPortMaps(bi, dia)

	if dia.abstractionRefChild {
		// 2014/2022: abstractionTypes/abstractionType wraps both the
		// abstraction reference and the portMaps.
		abstractionRef := el("abstractionRef")
		addVLNVAttrs(abstractionRef, dia,
			bi.Abstraction.Vendor, bi.Abstraction.Library, bi.Abstraction.Name, bi.Abstraction.Version)
		at := el("abstractionType", abstractionRef)
		at.add(portMaps)
		n.add(el("abstractionTypes", at))
	} else {
		// 2009: abstractionType carries the VLNV attributes itself and
		// portMaps sit after the interface-mode element.
		at := el("abstractionType")
		addVLNVAttrs(at, dia,
			bi.Abstraction.Vendor, bi.Abstraction.Library, bi.Abstraction.Name, bi.Abstraction.Version)
		n.add(at)
	}

	n.add(buildRole(bi, dia))

	if !dia.abstractionRefChild {
		n.add(portMaps)
	}

	n.add(buildBusInterfaceParams(bi))
	return n
}

func buildRole(bi *matcher.BusInterface, dia dialect) *node {
	switch bi.Side {
	case matcher.SideMaster:
		role := el(dia.roleMaster)
		if bi.AddrSpace != nil {
			ref := el("addressSpaceRef")
			ref.attr(qualify(dia, "addressSpaceRef"), bi.AddrSpace.Name)
			role.add(ref)
		}
		return role
	case matcher.SideSlave:
		role := el(dia.roleSlave)
		if bi.MemMap != nil {
			ref := el("memoryMapRef")
			ref.attr(qualify(dia, "memoryMapRef"), bi.MemMap.Name)
			role.add(ref)
		}
		return role
	case matcher.SideSystem:
		return el("system")
	default:
		return el("monitor")
	}
}

func buildPortMaps(bi *matcher.BusInterface, dia dialect) *node {
	if len(bi.PortMaps) == 0 {
		return nil
	}
	pms := el("portMaps")
	for _, pm := range bi.PortMaps {
		phys := el("physicalPort", txt("name", pm.PhysicalName))
		if pm.HasBitSlice {
			left := txt("left", strconv.Itoa(pm.BitSliceLeft))
			right := txt("right", strconv.Itoa(pm.BitSliceRight))
			if dia.nestedVectors {
				phys.add(el("partSelect", el("range", left, right)))
			} else {
				phys.add(el("vector", left, right))
			}
		}
		pms.add(el("portMap",
			el("logicalPort", txt("name", pm.LogicalName)),
			phys,
		))
	}
	return pms
}

func buildBusInterfaceParams(bi *matcher.BusInterface) *node {
	params := append([]matcher.BusParam(nil), bi.Params...)
	if bi.IsClock {
		params = append(params, matcher.BusParam{Name: "isClock", Value: "true"})
	}
	if bi.IsReset {
		params = append(params,
			matcher.BusParam{Name: "isReset", Value: "true"},
			matcher.BusParam{Name: "POLARITY", Value: bi.Polarity},
		)
	}
	if len(params) == 0 {
		return nil
	}
	ps := el("parameters")
	for _, p := range params {
		ps.add(el("parameter", txt("name", p.Name), txt("value", p.Value)))
	}
	return ps
}

func buildAddressSpaces(interfaces []matcher.BusInterface) *node {
	var spaces *node
	for i := range interfaces {
		as := interfaces[i].AddrSpace
		if as == nil {
			continue
		}
		if spaces == nil {
			spaces = el("addressSpaces")
		}
		spaces.add(el("addressSpace",
			txt("name", as.Name),
			txt("range", strconv.FormatUint(as.Range, 10)),
			txt("width", strconv.Itoa(as.Width)),
		))
	}
	return spaces
}

func buildMemoryMaps(interfaces []matcher.BusInterface) *node {
	var maps *node
	for i := range interfaces {
		mm := interfaces[i].MemMap
		if mm == nil {
			continue
		}
		if maps == nil {
			maps = el("memoryMaps")
		}
		maps.add(el("memoryMap",
			txt("name", mm.Name),
			el("addressBlock",
				txt("name", mm.AddressBlock),
				txt("baseAddress", strconv.FormatUint(mm.BaseAddress, 10)),
				txt("range", strconv.FormatUint(mm.Range, 10)),
				txt("width", strconv.Itoa(mm.Width)),
				txt("usage", "register"),
			),
		))
	}
	return maps
}

// buildModel emits every physical port of the module exactly once,
// mapped or not (spec §4.6 ports invariant).
func buildModel(mod *sv.Module, dia dialect) *node {
	views := el("views", el("view",
		txt("name", "rtl"),
		txt("envIdentifier", "*:*:*"),
	))

	ports := el("ports")
	for i := range mod.Ports {
		ports.add(buildModelPort(&mod.Ports[i], dia))
	}

	return el("model", views, ports)
}

func buildModelPort(p *sv.Port, dia dialect) *node {
	wire := el("wire", txt("direction", directionString(p.Direction)))
	if p.Packed != nil {
		left := txt("left", p.Packed.Left)
		right := txt("right", p.Packed.Right)
		if dia.nestedVectors {
			wire.add(el("vectors", el("vector", left, right)))
		} else {
			wire.add(el("vector", left, right))
		}
	}
	return el("port", txt("name", p.Name), wire)
}

func directionString(d sv.Direction) string {
	switch d {
	case sv.DirInput:
		return "in"
	case sv.DirOutput:
		return "out"
	default:
		// inout, interface references, and unresolved non-ANSI ports all
		// serialize as bidirectional.
		return "inout"
	}
}

func buildFileSets(mod *sv.Module) *node {
	if mod.SourceFile == "" {
		return nil
	}
	return el("fileSets", el("fileSet",
		txt("name", "sources"),
		el("file",
			txt("name", mod.SourceFile),
			txt("fileType", "systemVerilogSource"),
		),
	))
}

// buildParameters externalizes the module's parameters; localparams are
// excluded (spec §3).
func buildParameters(mod *sv.Module) *node {
	var params *node
	for _, p := range mod.Parameters {
		if p.IsLocal {
			continue
		}
		if params == nil {
			params = el("parameters")
		}
		params.add(el("parameter", txt("name", p.Name), txt("value", p.DefaultValue)))
	}
	return params
}

func addVLNVAttrs(n *node, dia dialect, vendor, library, name, version string) {
	n.attr(qualify(dia, "vendor"), vendor)
	n.attr(qualify(dia, "library"), library)
	n.attr(qualify(dia, "name"), name)
	n.attr(qualify(dia, "version"), version)
}

// qualify prefixes a reference attribute name for the 2009 dialect, which
// namespace-qualifies its VLNV and ref attributes; 2014/2022 leave them
// bare.
func qualify(dia dialect, attrName string) string {
	if dia.qualifiedRefAttrs {
		return dia.prefix + ":" + attrName
	}
	return attrName
}
