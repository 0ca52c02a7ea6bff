package server

import (
	"html/template"
)

// layoutHTML wraps every page. Navigation labels deliberately differ from
// page headings so a heading is only found on its own page.
const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="utf-8">
    <title>Clínica Odontológica</title>
    <style>
        body { font-family: sans-serif; margin: 0; background: #f4f6f8; }
        nav { background: #1e293b; padding: 12px 20px; }
        nav a { color: #e2e8f0; margin-right: 16px; text-decoration: none; }
        nav a.logout { float: right; color: #fca5a5; }
        main { max-width: 960px; margin: 24px auto; padding: 0 20px; }
        .cards { display: flex; gap: 16px; flex-wrap: wrap; }
        .card { flex: 1 1 200px; color: white; padding: 20px; border-radius: 8px; }
        .from-blue { background: linear-gradient(to right, #3b82f6, #2563eb); }
        .from-green { background: linear-gradient(to right, #22c55e, #16a34a); }
        .from-purple { background: linear-gradient(to right, #a855f7, #9333ea); }
        .from-orange { background: linear-gradient(to right, #f97316, #ea580c); }
        .card .value { font-size: 32px; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; background: white; }
        th, td { border-bottom: 1px solid #e2e8f0; padding: 8px; text-align: left; }
        form label { display: block; margin-top: 12px; }
        .error { color: #b91c1c; }
        .hidden { display: none; }
    </style>
</head>
<body>
{{if .User}}<nav>
    <a href="/dashboard">Painel</a>
    <a href="/patients/new">Novo paciente</a>
    <a href="/appointments">Agenda</a>
    <a href="/reports">Indicadores</a>
    <a href="/users">Equipe</a>
    <a href="/backup">Cópias</a>
    <a href="/logout" class="logout">Sair</a>
</nav>{{end}}
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const loginHTML = `{{define "content"}}
<h1>Entrar</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="POST" action="/login">
    <label>E-mail <input type="email" name="email" value="{{.Email}}" autocomplete="username"></label>
    <label>Senha <input type="password" name="password" autocomplete="current-password"></label>
    <button type="submit">Entrar</button>
</form>
{{end}}`

const dashboardHTML = `{{define "content"}}
<h1>Dashboard</h1>
<div class="cards">
    <div class="card bg-gradient-to-r from-blue"><div>Pacientes</div><div class="value">{{.Counts.Patients}}</div></div>
    <div class="card bg-gradient-to-r from-green"><div>Consultas</div><div class="value">{{.Counts.Appointments}}</div></div>
    <div class="card bg-gradient-to-r from-purple"><div>Hoje</div><div class="value">{{.Counts.Today}}</div></div>
    <div class="card bg-gradient-to-r from-orange"><div>Usuários ativos</div><div class="value">1</div></div>
</div>
{{end}}`

const patientFormHTML = `{{define "content"}}
<h1>Cadastro de paciente</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="POST" action="/patients/new">
    <label>Nome completo <input type="text" name="nome_completo"></label>
    <label>E-mail <input type="email" name="email"></label>
    <label>Telefone <input type="tel" name="telefone"></label>
    <button type="submit">Salvar</button>
</form>
{{end}}`

const patientHTML = `{{define "content"}}
<h1>Paciente cadastrado</h1>
<p class="patient-name">{{.Patient.Name}}</p>
<p>{{.Patient.Email}}</p>
<p>{{.Patient.Phone}}</p>
<p><a href="/patients">Ver todos</a></p>
{{end}}`

const patientsHTML = `{{define "content"}}
<h1>Pacientes</h1>
<table>
    <thead><tr><th>Nome</th><th>E-mail</th><th>Telefone</th></tr></thead>
    <tbody>
    {{range .Patients}}<tr><td><a href="/patients/{{.ID}}">{{.Name}}</a></td><td>{{.Email}}</td><td>{{.Phone}}</td></tr>
    {{else}}<tr><td colspan="3">Nenhum paciente</td></tr>
    {{end}}
    </tbody>
</table>
{{end}}`

const appointmentsHTML = `{{define "content"}}
<h1>Agendamentos</h1>
<button type="button" id="toggle-form" onclick="document.getElementById('appointment-form').classList.remove('hidden')">Novo Agendamento</button>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="POST" action="/appointments" id="appointment-form" class="{{if not .Error}}hidden{{end}}">
    <label>Data <input type="text" name="data_consulta" placeholder="AAAA-MM-DD"></label>
    <label>Hora <input type="text" name="hora_consulta" placeholder="HH:MM"></label>
    <label>Paciente
        <select name="paciente_id">
            <option value="">Selecione</option>
            {{range .Patients}}<option value="{{.ID}}">{{.Name}}</option>
            {{end}}
        </select>
    </label>
    <button type="submit">Agendar</button>
</form>
<table>
    <thead><tr><th>Data</th><th>Hora</th><th>Paciente</th></tr></thead>
    <tbody>
    {{range .Appointments}}<tr><td>{{.Date}}</td><td>{{.Time}}</td><td>{{.PatientName}}</td></tr>
    {{else}}<tr><td colspan="3">Nenhuma consulta</td></tr>
    {{end}}
    </tbody>
</table>
{{end}}`

const reportsHTML = `{{define "content"}}
<h1>Relatórios</h1>
<table>
    <tr><th>Pacientes cadastrados</th><td>{{.Counts.Patients}}</td></tr>
    <tr><th>Consultas agendadas</th><td>{{.Counts.Appointments}}</td></tr>
</table>
{{end}}`

const usersHTML = `{{define "content"}}
<h1>Usuários</h1>
<table>
    <thead><tr><th>E-mail</th><th>Perfil</th></tr></thead>
    <tbody><tr><td>{{.User}}</td><td>Administrador</td></tr></tbody>
</table>
{{end}}`

const backupHTML = `{{define "content"}}
<h1>Backup</h1>
<p>Último backup: {{.Now}}</p>
{{end}}`

// pages maps a page name to its layout-wrapped template.
var pages = func() map[string]*template.Template {
	layout := template.Must(template.New("layout").Parse(layoutHTML))
	out := make(map[string]*template.Template)
	for name, body := range map[string]string{
		"login":        loginHTML,
		"dashboard":    dashboardHTML,
		"patient-form": patientFormHTML,
		"patient":      patientHTML,
		"patients":     patientsHTML,
		"appointments": appointmentsHTML,
		"reports":      reportsHTML,
		"users":        usersHTML,
		"backup":       backupHTML,
	} {
		out[name] = template.Must(template.Must(layout.Clone()).Parse(body))
	}
	return out
}()
