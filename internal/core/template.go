package core

// DefaultStartYear is the year created on first run.
const DefaultStartYear = 2026

// MonthNames is the fixed calendar sequence indexed by MonthData.ID.
var MonthNames = [MonthsPerYear]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// TemplateBills seeds every month of a freshly initialized year. Ids are
// placeholders and are always replaced.
var TemplateBills = []Bill{
	{ID: "1", Name: "Parcela Casa", DueDate: "10", Value: 5089.06},
	{ID: "2", Name: "Condomínio", DueDate: "15", Value: 607.31},
	{ID: "3", Name: "Luz", DueDate: "16", Value: 108.11},
	{ID: "4", Name: "Água", DueDate: "4", Value: 99.42},
	{ID: "5", Name: "Internet", DueDate: "8", Value: 110.96},
	{ID: "6", Name: "Cartão C6", DueDate: NoDueDate, Value: 6165.34},
	{ID: "7", Name: "Cartão Nubank", DueDate: NoDueDate, Value: 1557.77},
	{ID: "8", Name: "Plano de Saúde", DueDate: NoDueDate, Value: 951.62},
	{ID: "9", Name: "Celular 1", DueDate: "1", Value: 49.02},
	{ID: "10", Name: "Celular 2", DueDate: "7", Value: 42.99},
	{ID: "11", Name: "Coleta", DueDate: NoDueDate, Value: 100.00},
	{ID: "12", Name: "Móveis Planejado", DueDate: "10", Value: 381.00},
	{ID: "13", Name: "Aluguel", DueDate: NoDueDate, Value: 1000.00},
	{ID: "14", Name: "Internet Clínica", DueDate: NoDueDate, Value: 37.00},
	{ID: "15", Name: "Água Clínica", DueDate: NoDueDate, Value: 20.29},
	{ID: "16", Name: "Conselho", DueDate: NoDueDate, Value: 79.20},
	{ID: "17", Name: "Dentista", DueDate: NoDueDate, Value: 200.00},
	{ID: "18", Name: "Seguro", DueDate: NoDueDate, Value: 101.90},
	{ID: "19", Name: "IPVA", DueDate: NoDueDate, Value: 22.99},
}

// DefaultIncome seeds every month of a freshly initialized year.
var DefaultIncome = Income{Samuel: 9000, Sammia: 5200, Others: 0}
