package libindex

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// The structs below unmarshal both the 2009 (`spirit:`) and 2014/2022
// (`ipxact:`) namespaces with one definition each: encoding/xml matches a
// struct tag with no namespace prefix against any namespace URI as long as
// the local name agrees, exactly the approach scottdware-go-junos takes
// for its RPC-reply structs.

type xmlBusDefinition struct {
	XMLName          xml.Name       `xml:"busDefinition"`
	Vendor           string         `xml:"vendor"`
	Library          string         `xml:"library"`
	Name             string         `xml:"name"`
	Version          string         `xml:"version"`
	DirectConnection xmlBoolElement `xml:"directConnection"`
	IsAddressable    xmlBoolElement `xml:"isAddressable"`
	Parameters       struct {
		Parameter []xmlNameValue `xml:"parameter"`
	} `xml:"parameters"`
}

type xmlBoolElement struct {
	Value string `xml:",chardata"`
}

func (b xmlBoolElement) bool() bool {
	return strings.EqualFold(strings.TrimSpace(b.Value), "true") || strings.TrimSpace(b.Value) == "1"
}

type xmlNameValue struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type xmlVLNVRef struct {
	Vendor  string `xml:"vendor,attr"`
	Library string `xml:"library,attr"`
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

type xmlAbstractionDefinition struct {
	XMLName xml.Name   `xml:"abstractionDefinition"`
	Vendor  string     `xml:"vendor"`
	Library string     `xml:"library"`
	Name    string     `xml:"name"`
	Version string     `xml:"version"`
	BusType xmlVLNVRef `xml:"busType"`
	Ports   struct {
		Port []xmlAbstractionPort `xml:"port"`
	} `xml:"ports"`
}

type xmlAbstractionPort struct {
	LogicalName string        `xml:"logicalName"`
	Wire        *xmlWirePort  `xml:"wire"`
}

type xmlWirePort struct {
	OnMaster *xmlWireSide `xml:"onMaster"`
	OnSlave  *xmlWireSide `xml:"onSlave"`
	OnSystem *xmlWireSide `xml:"onSystem"`
}

type xmlWireSide struct {
	Presence string `xml:"presence"`
	Width    string `xml:"width"`
	Direction string `xml:"direction"`
	Default  string `xml:"defaultValue"`
}

func (w *xmlWireSide) toDescriptor() *SideDescriptor {
	if w == nil {
		return nil
	}
	return &SideDescriptor{
		Presence: ParsePresence(w.Presence),
		Dir:      ParseSideDir(w.Direction),
		Width:    strings.TrimSpace(w.Width),
		Default:  strings.TrimSpace(w.Default),
	}
}

func toVLNV(v string, l string, n string, ver string) VLNV {
	return VLNV{Vendor: v, Library: l, Name: n, Version: ver}
}

// parseBusDefinition decodes a <busDefinition> document into a catalog
// BusDefinition, including the clock/reset name classification (spec §4.3).
func parseBusDefinition(data []byte) (BusDefinition, error) {
	var x xmlBusDefinition
	if err := xml.Unmarshal(data, &x); err != nil {
		return BusDefinition{}, err
	}
	bd := BusDefinition{
		VLNV:             toVLNV(x.Vendor, x.Library, x.Name, x.Version),
		IsAddressable:    x.IsAddressable.bool(),
		DirectConnection: x.DirectConnection.bool(),
	}
	for _, p := range x.Parameters.Parameter {
		if p.Name != "" {
			bd.Parameters = append(bd.Parameters, p.Name)
		}
	}
	// Exact name match only: a bus merely mentioning "clock" (ClockGating,
	// AxiClockDivider) must not be bound by the matcher's direct
	// clock/reset path.
	lname := strings.ToLower(x.Name)
	bd.IsClock = lname == "clock" || lname == "clk"
	bd.IsReset = lname == "reset" || lname == "rst"
	return bd, nil
}

// parseAbstractionDefinition decodes an <abstractionDefinition> document,
// applying mirror-slave inference (spec §4.3/§9) for any logical port whose
// master side is present but slave side is absent.
func parseAbstractionDefinition(data []byte) (AbstractionDefinition, error) {
	var x xmlAbstractionDefinition
	if err := xml.Unmarshal(data, &x); err != nil {
		return AbstractionDefinition{}, err
	}
	ad := AbstractionDefinition{
		VLNV:    toVLNV(x.Vendor, x.Library, x.Name, x.Version),
		BusType: toVLNV(x.BusType.Vendor, x.BusType.Library, x.BusType.Name, x.BusType.Version),
	}
	for _, p := range x.Ports.Port {
		lp := LogicalPort{Name: p.LogicalName}
		if p.Wire != nil {
			lp.Master = p.Wire.OnMaster.toDescriptor()
			lp.Slave = p.Wire.OnSlave.toDescriptor()
		}
		ad.Ports = append(ad.Ports, lp)
	}
	ad.InferMirrors()
	return ad, nil
}

// sniffRoot reads just enough of data to report the local name of the
// document's root element, so identification is by element, not filename
// (spec §6).
func sniffRoot(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local
		}
	}
}
