package ifc

// classNames lists IFC2x3 and IFC4 entity names in their schema casing.
// Label looks tags up here when kindLabels has no entry.
var classNames = []string{
	// Spatial structure and zones
	"IfcSpatialZone", "IfcExternalSpatialElement", "IfcZone", "IfcSystem",
	"IfcBuildingSystem", "IfcDistributionSystem", "IfcDistributionCircuit",
	"IfcStructuralAnalysisModel", "IfcGroup", "IfcInventory", "IfcAsset",
	"IfcGrid", "IfcAnnotation", "IfcVirtualElement", "IfcProxy",
	"IfcBuildingElementProxy", "IfcProjectLibrary", "IfcFacility", "IfcFacilityPart",

	// Building elements
	"IfcWallElementedCase", "IfcCurtainWall", "IfcSlabStandardCase",
	"IfcSlabElementedCase", "IfcRoof", "IfcStair", "IfcStairFlight", "IfcRamp",
	"IfcRampFlight", "IfcRailing", "IfcCovering", "IfcCeiling", "IfcPlate",
	"IfcPlateStandardCase", "IfcMember", "IfcMemberStandardCase",
	"IfcBeamStandardCase", "IfcColumnStandardCase", "IfcDoorStandardCase",
	"IfcWindowStandardCase", "IfcFooting", "IfcPile", "IfcChimney", "IfcShadingDevice",
	"IfcBuildingElementPart", "IfcElementAssembly", "IfcElementComponent",
	"IfcReinforcingBar", "IfcReinforcingMesh", "IfcTendon", "IfcTendonAnchor",
	"IfcDiscreteAccessory", "IfcFastener", "IfcMechanicalFastener",
	"IfcOpeningElement", "IfcOpeningStandardCase", "IfcVoidingFeature",
	"IfcProjectionElement", "IfcSurfaceFeature", "IfcGeographicElement",
	"IfcCivilElement", "IfcTransportElement",

	// Furnishing
	"IfcFurnishingElement", "IfcFurniture", "IfcSystemFurnitureElement",

	// Distribution
	"IfcDistributionElement", "IfcDistributionControlElement",
	"IfcDistributionFlowElement", "IfcDistributionChamberElement",
	"IfcDistributionPort", "IfcFlowSegment", "IfcFlowFitting", "IfcFlowTerminal",
	"IfcFlowController", "IfcFlowMovingDevice", "IfcFlowStorageDevice",
	"IfcFlowTreatmentDevice", "IfcEnergyConversionDevice", "IfcPipeSegment",
	"IfcPipeFitting", "IfcDuctSegment", "IfcDuctFitting", "IfcDuctSilencer",
	"IfcCableSegment", "IfcCableFitting", "IfcCableCarrierSegment",
	"IfcCableCarrierFitting", "IfcAirTerminal", "IfcAirTerminalBox",
	"IfcAirToAirHeatRecovery", "IfcBoiler", "IfcBurner", "IfcChiller", "IfcCoil",
	"IfcCompressor", "IfcCondenser", "IfcCooledBeam", "IfcCoolingTower",
	"IfcDamper", "IfcEvaporativeCooler", "IfcEvaporator", "IfcFan", "IfcFilter",
	"IfcFireSuppressionTerminal", "IfcHeatExchanger", "IfcHumidifier",
	"IfcInterceptor", "IfcMedicalDevice", "IfcMotorConnection", "IfcPump",
	"IfcSanitaryTerminal", "IfcSpaceHeater", "IfcStackTerminal", "IfcTank",
	"IfcTubeBundle", "IfcUnitaryEquipment", "IfcValve", "IfcWasteTerminal",
	"IfcAlarm", "IfcActuator", "IfcController", "IfcFlowInstrument",
	"IfcProtectiveDeviceTrippingUnit", "IfcSensor", "IfcUnitaryControlElement",
	"IfcAudioVisualAppliance", "IfcCommunicationsAppliance",
	"IfcElectricAppliance", "IfcElectricDistributionBoard",
	"IfcElectricFlowStorageDevice", "IfcElectricGenerator", "IfcElectricMotor",
	"IfcElectricTimeControl", "IfcJunctionBox", "IfcLamp", "IfcLightFixture",
	"IfcOutlet", "IfcProtectiveDevice", "IfcSolarDevice", "IfcSwitchingDevice",
	"IfcTransformer", "IfcEngine", "IfcFlowMeter",

	// Types
	"IfcWallType", "IfcSlabType", "IfcDoorType", "IfcWindowType", "IfcBeamType",
	"IfcColumnType", "IfcRoofType", "IfcStairType", "IfcStairFlightType",
	"IfcRampType", "IfcRampFlightType", "IfcRailingType", "IfcCoveringType",
	"IfcCurtainWallType", "IfcPlateType", "IfcMemberType", "IfcFootingType",
	"IfcPileType", "IfcBuildingElementProxyType", "IfcFurnitureType",
	"IfcFurnishingElementType", "IfcSpaceType", "IfcPipeSegmentType",
	"IfcPipeFittingType", "IfcDuctSegmentType", "IfcDuctFittingType",
	"IfcAirTerminalType", "IfcLightFixtureType", "IfcSanitaryTerminalType",
	"IfcValveType", "IfcPumpType", "IfcFanType", "IfcDoorStyle", "IfcWindowStyle",

	// Processes and controls
	"IfcProcedure", "IfcEvent", "IfcWorkSchedule", "IfcWorkPlan",
	"IfcWorkCalendar", "IfcTaskTime", "IfcTaskType", "IfcCostItem",
	"IfcCostSchedule", "IfcActor", "IfcOccupant", "IfcPerformanceHistory",
	"IfcPermit", "IfcActionRequest", "IfcProjectOrder",

	// Properties, quantities and resources
	"IfcPropertyBoundedValue", "IfcPropertyTableValue",
	"IfcPropertyReferenceValue", "IfcComplexProperty", "IfcPropertySetTemplate",
	"IfcPhysicalComplexQuantity", "IfcQuantityTime", "IfcMaterialConstituent",
	"IfcMaterialConstituentSet", "IfcMaterialProfile", "IfcMaterialProfileSet",
	"IfcMaterialProfileSetUsage", "IfcDerivedUnit", "IfcMeasureWithUnit",
	"IfcDimensionalExponents", "IfcPerson", "IfcOrganization",
	"IfcPersonAndOrganization", "IfcApplication", "IfcPostalAddress",
	"IfcGeometricRepresentationContext", "IfcShapeRepresentation",
	"IfcAxis2Placement3D", "IfcCartesianPoint", "IfcDirection",
	"IfcExtrudedAreaSolid", "IfcRectangleProfileDef", "IfcPolyline",
	"IfcStyledItem", "IfcSurfaceStyle", "IfcColourRgb", "IfcDocumentReference",
	"IfcDocumentInformation", "IfcLibraryReference",

	// Relationships
	"IfcRelAssignsToProduct", "IfcRelAssignsToGroup", "IfcRelAssignsToControl",
	"IfcRelAssignsToActor", "IfcRelAssignsToResource",
	"IfcRelAssociatesDocument", "IfcRelAssociatesLibrary",
	"IfcRelConnectsElements", "IfcRelConnectsPathElements",
	"IfcRelConnectsPortToElement", "IfcRelConnectsPorts",
	"IfcRelConnectsStructuralMember", "IfcRelContainedInSpatialStructure",
	"IfcRelCoversBldgElements", "IfcRelCoversSpaces", "IfcRelDeclares",
	"IfcRelDefinesByObject", "IfcRelDefinesByTemplate", "IfcRelFillsElement",
	"IfcRelVoidsElement", "IfcRelProjectsElement", "IfcRelReferencedInSpatialStructure",
	"IfcRelSequence", "IfcRelServicesBuildings", "IfcRelSpaceBoundary",
	"IfcRelSpaceBoundary1stLevel", "IfcRelSpaceBoundary2ndLevel",
	"IfcRelInterferesElements", "IfcRelFlowControlElements",
}
