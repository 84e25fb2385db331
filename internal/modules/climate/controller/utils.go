package controller

import "surfsup-server/internal/modules/climate/views"

const indexTitle = "Hawaii Climate Analysis API"

var indexRoutes = []views.Route{
	{Path: apiPrefix + "/precipitation"},
	{Path: apiPrefix + "/stations"},
	{Path: apiPrefix + "/tobs"},
	{Path: apiPrefix + "/<start>", Hint: "enter as YYYY-MM-DD"},
	{Path: apiPrefix + "/<start>/<end>", Hint: "enter as YYYY-MM-DD/YYYY-MM-DD"},
}
