package devices

// DehumidifierSchema 除湿机（007）模板
// 除湿机走与 bean 类相同的能力过滤算法，但不强制注入能耗属性
func DehumidifierSchema() Schema {
	return schemaAttrs(
		&Attribute{Key: "t_power", Name: "Power", Type: TypeEnum, ReadWrite: ReadWrite, ValueMap: powerValueMap()},
		&Attribute{Key: "t_work_mode", Name: "Work Mode", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap(
				"1", "持续 Continuous",
				"2", "自动 Auto",
				"3", "手动 Manual",
				"4", "干衣 Dry Clothes",
			)},
		&Attribute{Key: "t_fan_speed", Name: "Fan Speed", Type: TypeEnum, ReadWrite: ReadWrite,
			ValueMap: NewValueMap("0", "自动", "6", "低", "8", "高")},
		&Attribute{Key: "t_dehumidify_humidity", Name: "Target Humidity", Type: TypeNumber, ReadWrite: ReadWrite, Step: 5},
		&Attribute{Key: "f_humidity", Name: "Indoor Humidity", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_temp_in", Name: "Indoor Temperature", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_power_display", Name: "Power Display", Type: TypeNumber, ReadWrite: ReadOnly},
		&Attribute{Key: "f_e_waterfull", Name: "Water Full Alert", Type: TypeBoolean, ReadWrite: ReadOnly},
		&Attribute{Key: "f_e_wetsensor", Name: "Humidity Sensor Fault", Type: TypeBoolean, ReadWrite: ReadOnly},
	)
}
