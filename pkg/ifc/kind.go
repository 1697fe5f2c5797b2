package ifc

import "strings"

// Kind is the uppercase IFC class tag of an entity.
type Kind string

// Kinds the property engine dispatches on.
const (
	KindPropertySet             Kind = "IFCPROPERTYSET"
	KindPropertySingleValue     Kind = "IFCPROPERTYSINGLEVALUE"
	KindPropertyEnumeratedValue Kind = "IFCPROPERTYENUMERATEDVALUE"
	KindPropertyListValue       Kind = "IFCPROPERTYLISTVALUE"
	KindElementQuantity         Kind = "IFCELEMENTQUANTITY"
	KindQuantityLength          Kind = "IFCQUANTITYLENGTH"
	KindQuantityArea            Kind = "IFCQUANTITYAREA"
	KindQuantityVolume          Kind = "IFCQUANTITYVOLUME"
	KindQuantityCount           Kind = "IFCQUANTITYCOUNT"
	KindQuantityWeight          Kind = "IFCQUANTITYWEIGHT"

	KindClassification          Kind = "IFCCLASSIFICATION"
	KindClassificationReference Kind = "IFCCLASSIFICATIONREFERENCE"

	KindMaterial              Kind = "IFCMATERIAL"
	KindMaterialList          Kind = "IFCMATERIALLIST"
	KindMaterialLayer         Kind = "IFCMATERIALLAYER"
	KindMaterialLayerSet      Kind = "IFCMATERIALLAYERSET"
	KindMaterialLayerSetUsage Kind = "IFCMATERIALLAYERSETUSAGE"

	KindTask Kind = "IFCTASK"

	KindUnitAssignment      Kind = "IFCUNITASSIGNMENT"
	KindSIUnit              Kind = "IFCSIUNIT"
	KindConversionBasedUnit Kind = "IFCCONVERSIONBASEDUNIT"

	KindProject         Kind = "IFCPROJECT"
	KindSite            Kind = "IFCSITE"
	KindBuilding        Kind = "IFCBUILDING"
	KindBuildingStorey  Kind = "IFCBUILDINGSTOREY"
	KindSpace           Kind = "IFCSPACE"
	KindWall            Kind = "IFCWALL"
	KindWallStandard    Kind = "IFCWALLSTANDARDCASE"
	KindSlab            Kind = "IFCSLAB"
	KindDoor            Kind = "IFCDOOR"
	KindWindow          Kind = "IFCWINDOW"
	KindBeam            Kind = "IFCBEAM"
	KindColumn          Kind = "IFCCOLUMN"
	KindOwnerHistory    Kind = "IFCOWNERHISTORY"
	KindLocalPlacement  Kind = "IFCLOCALPLACEMENT"
	KindShapeDefinition Kind = "IFCPRODUCTDEFINITIONSHAPE"

	KindRelDefinesByProperties         Kind = "IFCRELDEFINESBYPROPERTIES"
	KindRelDefinesByType               Kind = "IFCRELDEFINESBYTYPE"
	KindRelAssociatesMaterial          Kind = "IFCRELASSOCIATESMATERIAL"
	KindRelAssociatesClassification    Kind = "IFCRELASSOCIATESCLASSIFICATION"
	KindRelAssignsToProcess            Kind = "IFCRELASSIGNSTOPROCESS"
	KindRelContainedInSpatialStructure Kind = "IFCRELCONTAINEDINSPATIALSTRUCTURE"
	KindRelNests                       Kind = "IFCRELNESTS"
	KindRelAggregates                  Kind = "IFCRELAGGREGATES"
)

var kindLabels = map[Kind]string{
	KindPropertySet:                    "IfcPropertySet",
	KindPropertySingleValue:            "IfcPropertySingleValue",
	KindPropertyEnumeratedValue:        "IfcPropertyEnumeratedValue",
	KindPropertyListValue:              "IfcPropertyListValue",
	KindElementQuantity:                "IfcElementQuantity",
	KindQuantityLength:                 "IfcQuantityLength",
	KindQuantityArea:                   "IfcQuantityArea",
	KindQuantityVolume:                 "IfcQuantityVolume",
	KindQuantityCount:                  "IfcQuantityCount",
	KindQuantityWeight:                 "IfcQuantityWeight",
	KindClassification:                 "IfcClassification",
	KindClassificationReference:        "IfcClassificationReference",
	KindMaterial:                       "IfcMaterial",
	KindMaterialList:                   "IfcMaterialList",
	KindMaterialLayer:                  "IfcMaterialLayer",
	KindMaterialLayerSet:               "IfcMaterialLayerSet",
	KindMaterialLayerSetUsage:          "IfcMaterialLayerSetUsage",
	KindTask:                           "IfcTask",
	KindUnitAssignment:                 "IfcUnitAssignment",
	KindSIUnit:                         "IfcSIUnit",
	KindConversionBasedUnit:            "IfcConversionBasedUnit",
	KindProject:                        "IfcProject",
	KindSite:                           "IfcSite",
	KindBuilding:                       "IfcBuilding",
	KindBuildingStorey:                 "IfcBuildingStorey",
	KindSpace:                          "IfcSpace",
	KindWall:                           "IfcWall",
	KindWallStandard:                   "IfcWallStandardCase",
	KindSlab:                           "IfcSlab",
	KindDoor:                           "IfcDoor",
	KindWindow:                         "IfcWindow",
	KindBeam:                           "IfcBeam",
	KindColumn:                         "IfcColumn",
	KindOwnerHistory:                   "IfcOwnerHistory",
	KindLocalPlacement:                 "IfcLocalPlacement",
	KindShapeDefinition:                "IfcProductDefinitionShape",
	KindRelDefinesByProperties:         "IfcRelDefinesByProperties",
	KindRelDefinesByType:               "IfcRelDefinesByType",
	KindRelAssociatesMaterial:          "IfcRelAssociatesMaterial",
	KindRelAssociatesClassification:    "IfcRelAssociatesClassification",
	KindRelAssignsToProcess:            "IfcRelAssignsToProcess",
	KindRelContainedInSpatialStructure: "IfcRelContainedInSpatialStructure",
	KindRelNests:                       "IfcRelNests",
	KindRelAggregates:                  "IfcRelAggregates",
}

func init() {
	for _, name := range classNames {
		k := ParseKind(name)
		if _, ok := kindLabels[k]; !ok {
			kindLabels[k] = name
		}
	}
}

// ParseKind normalizes a class name ("IfcWall", "ifcwall") to its tag.
func ParseKind(s string) Kind { return Kind(strings.ToUpper(strings.TrimSpace(s))) }

// Label returns the human-readable class name, or the raw tag for classes
// without a registered label.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// String returns the raw tag.
func (k Kind) String() string { return string(k) }
