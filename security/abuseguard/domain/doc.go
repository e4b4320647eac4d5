// Package domain define contratos e tipos de domínio da camada de segurança
// do bot (rate limit, detecção de padrões, banimento, auditoria).
//
// Este pacote não depende de filesystem, redis nem de implementações
// concretas. A intenção é permitir testes de unidade puros e desacoplar
// regras de negócio de detalhes de infraestrutura.
package domain
